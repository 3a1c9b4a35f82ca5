// Package region filters site records to a geographic region.
//
// The primary predicate is a diacritic- and case-insensitive match of the
// address region text ("Île-de-France", "ile de france" and "Ile-De-France"
// all match). An optional boundary polygon rescues sites whose address
// omits the region but whose coordinates fall inside it.
package region

import (
	"strings"

	"github.com/maraisdata/seatmap/internal/strutil"
	"github.com/maraisdata/seatmap/pkg/affluences"
)

// Filter decides whether a site belongs to the target region.
type Filter struct {
	name     string
	words    []string
	boundary *Boundary
}

// Option configures a Filter.
type Option func(*Filter)

// WithBoundary attaches a boundary polygon for coordinate containment.
func WithBoundary(b *Boundary) Option {
	return func(f *Filter) {
		f.boundary = b
	}
}

// New builds a Filter for the named region. The name is folded and split
// into word components; short connectives ("de", "du", "la") drop out, so
// "Île-de-France" requires both "ile" and "france" in the address text.
func New(name string, opts ...Option) *Filter {
	f := &Filter{name: name, words: nameWords(name)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the region's display name.
func (f *Filter) Name() string { return f.name }

// Matches reports whether a site belongs to the region, by address text
// first and boundary containment second.
func (f *Filter) Matches(s affluences.SiteSummary) bool {
	if f.matchesText(s.Location.Address.Region) {
		return true
	}
	if f.boundary != nil && s.Location.Coordinates != nil {
		c := s.Location.Coordinates
		return f.boundary.Contains(c.Latitude, c.Longitude)
	}
	return false
}

// Apply retains only the sites matching the region, order preserved.
func (f *Filter) Apply(sites []affluences.SiteSummary) []affluences.SiteSummary {
	var kept []affluences.SiteSummary
	for _, s := range sites {
		if f.Matches(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

func (f *Filter) matchesText(regionText string) bool {
	if regionText == "" || len(f.words) == 0 {
		return false
	}
	folded := strutil.Fold(regionText)
	for _, w := range f.words {
		if !strings.Contains(folded, w) {
			return false
		}
	}
	return true
}

// nameWords folds the region name and keeps word components of 3+ runes.
func nameWords(name string) []string {
	folded := strutil.Fold(name)
	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return r == '-' || r == ' ' || r == '\''
	})
	var words []string
	for _, p := range parts {
		if len([]rune(p)) >= 3 {
			words = append(words, p)
		}
	}
	return words
}
