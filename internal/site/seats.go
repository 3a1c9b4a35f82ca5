package site

import (
	"strings"

	"github.com/maraisdata/seatmap/internal/strutil"
	"github.com/maraisdata/seatmap/pkg/affluences"
)

// seatKeywords mark info entries that describe seat availability. The API
// mixes English and French wording depending on the site operator.
var seatKeywords = []string{
	"available seats",
	"available places",
	"available",
	"places disponibles",
	"places",
}

// ExtractSeats pulls an available-seat count out of a site's info entries.
//
// An entry whose folded title or description contains a seat keyword wins;
// the count is the first integer in its description (or title). When no
// entry matches a keyword, the first integer found in any entry is used as
// a fallback. Returns nil when the infos carry no usable number — absence
// is not an error.
func ExtractSeats(infos []affluences.Info) *int {
	if len(infos) == 0 {
		return nil
	}

	for _, info := range infos {
		combined := strutil.Fold(info.Title) + " " + strutil.Fold(info.Description)
		for _, kw := range seatKeywords {
			if !strings.Contains(combined, kw) {
				continue
			}
			if n := firstIntOf(info); n != nil {
				return n
			}
		}
	}

	for _, info := range infos {
		if n := firstIntOf(info); n != nil {
			return n
		}
	}

	return nil
}

func firstIntOf(info affluences.Info) *int {
	text := info.Description
	if text == "" {
		text = info.Title
	}
	return strutil.FirstInt(text)
}
