package models

import "time"

// ProductLine is one row of a focus-item sheet. Both fields are free text;
// empty values are dropped from the stored JSON.
type ProductLine struct {
	Name string `json:"name,omitempty"`
	Rate string `json:"rate,omitempty"`
}

// ProductUsage is the running tally kept per product name.
type ProductUsage struct {
	ID          int64     `json:"id" db:"id"`
	ProductName string    `json:"product_name" db:"product_name"`
	LastRate    string    `json:"last_rate" db:"last_rate"`
	UsageCount  int       `json:"usage_count" db:"usage_count"`
	LastUsed    time.Time `json:"last_used" db:"last_used"`
}
