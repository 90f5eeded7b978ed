package model

import "time"

// Permit is a government building-permit filing. PermitNumber is the
// natural identity key; re-importing the same number is a no-op.
type Permit struct {
	ID           int64      `json:"id,omitempty"`
	County       County     `json:"county"`
	PermitNumber string     `json:"permit_number"`
	PermitType   string     `json:"permit_type,omitempty"`
	SiteAddress  string     `json:"site_address,omitempty"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status,omitempty"`
	AppliedDate  *time.Time `json:"applied_date,omitempty"`
}
