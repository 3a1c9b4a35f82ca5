package site

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maraisdata/seatmap/pkg/affluences"
)

// fakeClient serves canned details and fails the slugs in failSlugs.
type fakeClient struct {
	details   map[string]*affluences.SiteDetail
	failSlugs map[string]bool
}

func (f *fakeClient) ListSites(ctx context.Context, opts affluences.ListOptions) ([]affluences.SiteSummary, error) {
	return nil, eris.New("not implemented")
}

func (f *fakeClient) GetSite(ctx context.Context, slug string) (*affluences.SiteDetail, error) {
	if f.failSlugs[slug] {
		return nil, eris.Errorf("detail fetch for %s failed", slug)
	}
	if d, ok := f.details[slug]; ok {
		return d, nil
	}
	return &affluences.SiteDetail{Slug: slug}, nil
}

func summaries(slugs ...string) []affluences.SiteSummary {
	out := make([]affluences.SiteSummary, len(slugs))
	for i, slug := range slugs {
		out[i] = affluences.SiteSummary{ID: i + 1, Slug: slug, PrimaryName: "Site " + slug}
	}
	return out
}

func TestEnrichPreservesInputOrder(t *testing.T) {
	client := &fakeClient{}
	e := NewEnricher(client, 3)

	in := summaries("a", "b", "c", "d", "e")
	got, failed, err := e.Enrich(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, failed)
	require.Len(t, got, 5)
	for i, s := range got {
		assert.Equal(t, in[i].Slug, s.Slug)
	}
}

func TestEnrichSkipsFailedDetails(t *testing.T) {
	occ := 30
	client := &fakeClient{
		details: map[string]*affluences.SiteDetail{
			"a": {
				URL:             "https://affluences.com/a",
				Infos:           []affluences.Info{{Title: "Places disponibles", Description: "100"}},
				CurrentForecast: &affluences.Forecast{Occupancy: &occ},
			},
		},
		failSlugs: map[string]bool{"b": true},
	}
	e := NewEnricher(client, 2)

	got, failed, err := e.Enrich(context.Background(), summaries("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	require.Len(t, got, 2, "a failed detail fetch must not drop the site")

	require.NotNil(t, got[0].Seats)
	assert.Equal(t, 100, *got[0].Seats)

	assert.Equal(t, "b", got[1].Slug)
	assert.Nil(t, got[1].Seats)
	assert.Nil(t, got[1].Occupancy)
	assert.Equal(t, "https://affluences.com/site/b", got[1].URL())
}

func TestEnrichEmptyInput(t *testing.T) {
	e := NewEnricher(&fakeClient{}, 4)
	got, failed, err := e.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, failed)
	assert.Empty(t, got)
}

func TestEnrichCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEnricher(&fakeClient{failSlugs: map[string]bool{"a": true}}, 1)
	_, _, err := e.Enrich(ctx, summaries("a"))
	assert.Error(t, err)
}
