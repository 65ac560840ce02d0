package models

import (
	"time"
)

// RetentionDays is the fixed cap on stored history length.
const RetentionDays = 30

// DocumentKey is the store key under which the whole price document lives.
const DocumentKey = "fuel_prices"

// PriceObservation is a single upstream record from the government feed.
// Consumed only during aggregation for one refresh cycle.
type PriceObservation struct {
	FuelTypeCode string  `json:"fuel_type_code"`
	Price        float64 `json:"price"`
}

// DataPoints counts how many upstream records contributed to each category.
type DataPoints struct {
	Unleaded int `json:"unleaded"`
	Premium  int `json:"premium"`
	Diesel   int `json:"diesel"`
}

// LatestPriceSnapshot is the most recent raw aggregation result.
// A nil price means the category had no valid observations this cycle.
type LatestPriceSnapshot struct {
	Unleaded    *float64   `json:"unleaded"`
	Premium     *float64   `json:"premium"`
	Diesel      *float64   `json:"diesel"`
	LastUpdated time.Time  `json:"last_updated"`
	DataPoints  DataPoints `json:"data_points"`
}

// DailyPriceEntry is one retained day of history. Date is the natural key,
// formatted as an ISO-8601 calendar date ("2006-01-02"). History entries are
// lean: no data-point counts.
type DailyPriceEntry struct {
	Date     string   `json:"date"`
	Unleaded *float64 `json:"unleaded"`
	Premium  *float64 `json:"premium"`
	Diesel   *float64 `json:"diesel"`
}

// CategoryPrices holds one value per canonical fuel category.
type CategoryPrices struct {
	Unleaded *float64 `json:"unleaded"`
	Premium  *float64 `json:"premium"`
	Diesel   *float64 `json:"diesel"`
}

// AveragesBlock holds the rolling averages derived from history on every
// refresh. Never persisted independently of a refresh.
type AveragesBlock struct {
	Last7Days  CategoryPrices `json:"last_7_days"`
	Last30Days CategoryPrices `json:"last_30_days"`
}

// PriceDocument is the root persisted/served entity. History is ordered
// newest first and never exceeds RetentionDays entries.
type PriceDocument struct {
	Latest      LatestPriceSnapshot `json:"latest"`
	Averages    AveragesBlock       `json:"averages"`
	History     []DailyPriceEntry   `json:"history"`
	LastUpdated time.Time           `json:"last_updated"`
	Fallback    bool                `json:"fallback,omitempty"`
}

// AppDocument is a single-key JSON blob row. The whole PriceDocument is
// stored as one value; writers replace the blob wholesale.
type AppDocument struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;size:64;not null"`
	Value     string    `json:"value" gorm:"type:longtext"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Float returns a pointer to v. Convenience for building nullable prices.
func Float(v float64) *float64 {
	return &v
}
