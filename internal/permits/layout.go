// Package permits extracts renovation permits from the Lee County
// Accela portal and the Collier County CityView portal.
//
// Parsing is positional: these portals keep a stable column order but
// churn header markup, so each layout maps cell indexes to fields
// directly. The relevance filter runs during extraction, so rows
// without a permit number or keyword hit are never materialized.
package permits

import "github.com/empire-sales/leadgen-cli/internal/model"

// GridLayout describes how one portal renders its result grid.
// Cell indexes past the end of a short row read as empty.
type GridLayout struct {
	County model.County

	// RowSelector finds data rows directly. When empty, TableSelector
	// is used instead and the first row of each table is skipped as a
	// header.
	RowSelector   string
	TableSelector string

	MinCells int

	NumberCell      int
	TypeCell        int
	AddressCell     int
	DescriptionCell int
	StatusCell      int
	DateCell        int

	// Keywords a permit's type+description must contain one of.
	Keywords []string
}

// AccelaGrid matches the Lee County Accela Citizen Access result grid.
// Accela tags data rows with ACA_TabRow classes, so headers never match.
var AccelaGrid = GridLayout{
	County:          model.CountyLee,
	RowSelector:     "table.ACA_Grid_OverFlow tr[class*='ACA_TabRow']",
	MinCells:        5,
	NumberCell:      1,
	TypeCell:        2,
	DescriptionCell: 3,
	AddressCell:     4,
	StatusCell:      5,
	DateCell:        6,
	Keywords: []string{
		"building", "residential", "alteration", "addition",
		"remodel", "interior", "roof", "re-roof",
	},
}

// CityViewGrid matches the Collier County CityView result tables.
var CityViewGrid = GridLayout{
	County:          model.CountyCollier,
	TableSelector:   "table",
	MinCells:        3,
	NumberCell:      0,
	TypeCell:        1,
	AddressCell:     2,
	DescriptionCell: 3,
	StatusCell:      4,
	DateCell:        5,
	Keywords: []string{
		"remodel", "renovation", "addition", "alteration", "interior",
		"kitchen", "bathroom", "flooring", "roof", "re-roof",
		"plumbing", "electrical", "mechanical", "hvac",
	},
}
