// Package nal loads Florida DOR NAL (Name-Address-Legal) tax-roll
// extracts and turns residential parcels into scored leads.
//
// NAL files are requested from PTOTechnology@floridarevenue.com and
// arrive as latin-1 CSVs with DOR-standard column codes, one file per
// county (Lee = 36, Collier = 11).
package nal

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/empire-sales/leadgen-cli/internal/model"
)

// nalColumns maps the DOR column codes consumed by the loader to
// canonical field names. Columns not listed here are dropped.
var nalColumns = map[string]string{
	"PARCEL_ID":  "parcel_id",
	"OWN_NAME":   "full_name",
	"S_ADDR":     "address",
	"S_CITY":     "city",
	"S_ZIPCD":    "zip_code",
	"DOR_UC":     "property_use_code",
	"ACT_YR_BLT": "year_built",
	"TOT_LVG_AR": "square_footage",
	"JV":         "assessed_value",
	"JV_HMSTD":   "homestead_value",
	"SALE_PRC1":  "last_sale_price",
	"SALE_DT1":   "last_sale_date",
}

// countyNames maps DOR county codes to county names.
var countyNames = map[string]model.County{
	"36": model.CountyLee,
	"11": model.CountyCollier,
}

// residentialUseCodes is the DOR use-code set kept by the residential
// filter: 01 single family through 08 multi-family 10+.
var residentialUseCodes = map[string]bool{
	"01": true, "02": true, "03": true, "04": true,
	"05": true, "06": true, "07": true, "08": true,
}

// DetectCountyCode infers the county code from the file name. Failure
// is a hard error; guessing a county would mis-tag every row.
func DetectCountyCode(path string) (string, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "36"), strings.Contains(name, "lee"):
		return "36", nil
	case strings.Contains(name, "11"), strings.Contains(name, "collier"):
		return "11", nil
	}
	return "", eris.Errorf("nal: cannot detect county from filename %q, pass --county", filepath.Base(path))
}
