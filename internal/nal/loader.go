package nal

import (
	"strconv"
	"strings"
	"time"

	"github.com/empire-sales/leadgen-cli/internal/model"
	"github.com/empire-sales/leadgen-cli/internal/normalize"
)

// DOR sale dates come in compact numeric form, e.g. 20240315.
const saleDateFormat = "20060102"

// columnIndex maps canonical field names to their position in one
// file's header. NAL column order varies by county and year.
type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	idx := columnIndex{}
	for i, col := range header {
		if field, ok := nalColumns[strings.TrimSpace(strings.ToUpper(col))]; ok {
			idx[field] = i
		}
	}
	return idx
}

func (idx columnIndex) get(row []string, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// leadFromRow projects one NAL row onto the lead schema. Returns false
// when the row is non-residential or lacks a site address. Malformed
// numeric and date fields become missing, never a row failure.
func leadFromRow(row []string, idx columnIndex, county model.County) (model.Lead, bool) {
	useCode := padUseCode(idx.get(row, "property_use_code"))
	if !residentialUseCodes[useCode] {
		return model.Lead{}, false
	}

	address := idx.get(row, "address")
	if address == "" {
		return model.Lead{}, false
	}

	var homestead bool
	if hv := parseFloat(idx.get(row, "homestead_value")); hv != nil && *hv > 0 {
		homestead = true
	}
	assessed := parseFloat(idx.get(row, "assessed_value"))

	lead := model.Lead{
		FullName:        normalize.TitleCase(idx.get(row, "full_name")),
		Address:         normalize.TitleCase(address),
		City:            normalize.TitleCase(idx.get(row, "city")),
		County:          county,
		ZipCode:         idx.get(row, "zip_code"),
		ParcelID:        idx.get(row, "parcel_id"),
		YearBuilt:       parseInt(idx.get(row, "year_built")),
		SquareFootage:   parseFloat(idx.get(row, "square_footage")),
		AssessedValue:   assessed,
		MarketValue:     assessed, // NAL has no separate market value column
		LastSalePrice:   parseFloat(idx.get(row, "last_sale_price")),
		LastSaleDate:    parseSaleDate(idx.get(row, "last_sale_date")),
		Homestead:       &homestead,
		PropertyUseCode: useCode,
		Source:          model.SourceNAL,
		Status:          model.LeadStatusNew,
	}
	return lead, true
}

func padUseCode(code string) string {
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseSaleDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(saleDateFormat, s)
	if err != nil {
		return nil
	}
	return &t
}
