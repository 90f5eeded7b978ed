// Package model defines the core record types shared across the pipeline.
package model

import "time"

// County identifies the Florida county a record belongs to.
type County string

const (
	CountyLee     County = "Lee"
	CountyCollier County = "Collier"
	CountyUnknown County = "Unknown"
)

// LeadSource describes where a lead record came from.
type LeadSource string

const (
	SourcePDF    LeadSource = "pdf"
	SourceNAL    LeadSource = "scraper_nal"
	SourceManual LeadSource = "manual"
)

// LeadStatus tracks a lead through the contact workflow.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
)

// Lead is a prospective customer/property record from any source.
// All fields except the source tag are optional; a lead is only a valid
// candidate when it carries at least a name or a phone.
type Lead struct {
	ID              int64      `json:"id,omitempty"`
	FullName        string     `json:"full_name,omitempty"`
	Phone           string     `json:"phone,omitempty"` // canonical +1XXXXXXXXXX, empty when unknown
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city,omitempty"`
	County          County     `json:"county,omitempty"`
	ZipCode         string     `json:"zip_code,omitempty"`
	ParcelID        string     `json:"parcel_id,omitempty"`
	YearBuilt       *int       `json:"year_built,omitempty"`
	SquareFootage   *float64   `json:"square_footage,omitempty"`
	AssessedValue   *float64   `json:"assessed_value,omitempty"`
	MarketValue     *float64   `json:"market_value,omitempty"`
	LastSalePrice   *float64   `json:"last_sale_price,omitempty"`
	LastSaleDate    *time.Time `json:"last_sale_date,omitempty"`
	Homestead       *bool      `json:"homestead,omitempty"`
	PropertyUseCode string     `json:"property_use_code,omitempty"`
	DoNotCall       bool       `json:"do_not_call,omitempty"`
	Source          LeadSource `json:"source"`
	Status          LeadStatus `json:"status"`
	RenovationScore int        `json:"renovation_score"`
	ScoreReasons    []string   `json:"score_reasons,omitempty"`
}

// Valid reports whether the lead carries the minimum identifying fields.
func (l *Lead) Valid() bool {
	return l.FullName != "" || l.Phone != ""
}
