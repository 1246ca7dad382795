package models

import "time"

// URLMapping represents the persisted association between a short code
// and its target URL plus visit counter.
type URLMapping struct {
	// ID is the unique identifier for the mapping record.
	ID int64
	// Code is the short alphanumeric identifier associated with the target URL.
	Code string
	// TargetURL is the original, full-length URL the code redirects to.
	TargetURL string
	// Visits tracks the number of successful redirects served for the code.
	Visits int64
	// CreatedAt is the timestamp indicating when the mapping was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the mapping was last updated.
	UpdatedAt time.Time
}
