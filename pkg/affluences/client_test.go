package affluences

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maraisdata/seatmap/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func listPage(names ...string) string {
	results := make([]map[string]any, len(names))
	for i, n := range names {
		results[i] = map[string]any{"id": i + 1, "slug": n, "primary_name": n}
	}
	page, _ := json.Marshal(map[string]any{"data": map[string]any{"results": results}})
	return string(page)
}

func TestListSitesPaginates(t *testing.T) {
	pages := []string{
		listPage("site-a", "site-b"),
		listPage("site-c"),
		listPage(),
	}

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/app/v3/sites", r.URL.Path)

		var body listRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{1}, body.SelectedCategories)
		require.Less(t, body.Page, len(pages))
		fmt.Fprint(w, pages[body.Page])
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	got, err := c.ListSites(context.Background(), ListOptions{})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "site-a", got[0].Slug)
	assert.Equal(t, "site-b", got[1].Slug)
	assert.Equal(t, "site-c", got[2].Slug)
	assert.Equal(t, int32(3), requests.Load())
}

func TestListSitesAbortsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	_, err := c.ListSites(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestListSitesRetriesTransientStatus(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, listPage())
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	got, err := c.ListSites(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), requests.Load())
}

func TestListSitesMaxPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listPage("endless"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	got, err := c.ListSites(context.Background(), ListOptions{MaxPages: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/app/v3/sites/bib-a", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "seatmap"))

		fmt.Fprint(w, `{"data":{
			"id": 7,
			"slug": "bib-a",
			"url": "https://affluences.com/bib-a",
			"infos": [{"title": "Places disponibles", "description": "300"}],
			"current_forecast": {"occupancy": 55}
		}}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))
	got, err := c.GetSite(context.Background(), "bib-a")
	require.NoError(t, err)

	assert.Equal(t, 7, got.ID)
	assert.Equal(t, "https://affluences.com/bib-a", got.URL)
	require.Len(t, got.Infos, 1)
	require.NotNil(t, got.CurrentForecast)
	require.NotNil(t, got.CurrentForecast.Occupancy)
	assert.Equal(t, 55, *got.CurrentForecast.Occupancy)
}

func TestGetSiteEmptySlug(t *testing.T) {
	c := NewClient()
	_, err := c.GetSite(context.Background(), "")
	assert.Error(t, err)
}
