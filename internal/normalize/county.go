package normalize

import (
	"strings"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

// Incorporated-place names in the two target counties. The sets are
// deliberately closed: a city we do not recognize yields Unknown
// rather than a guess.
var collierCities = map[string]struct{}{
	"naples":          {},
	"marco island":    {},
	"immokalee":       {},
	"golden gate":     {},
	"ave maria":       {},
	"everglades city": {},
}

var leeCities = map[string]struct{}{
	"fort myers":       {},
	"cape coral":       {},
	"lehigh acres":     {},
	"bonita springs":   {},
	"estero":           {},
	"north fort myers": {},
	"sanibel":          {},
	"fort myers beach": {},
	"pine island":      {},
	"matlacha":         {},
}

// County infers the county from a city name.
func County(city string) model.County {
	c := strings.ToLower(strings.TrimSpace(city))
	if c == "" {
		return model.CountyUnknown
	}
	if _, ok := collierCities[c]; ok {
		return model.CountyCollier
	}
	if _, ok := leeCities[c]; ok {
		return model.CountyLee
	}
	return model.CountyUnknown
}
