package services

import (
	"math"
	"sort"
	"time"

	"fuel-tracker/internal/models"
)

// Canonical fuel categories and the upstream product codes that feed them.
// Both premium octane grades share one bucket; splitting them later means a
// new entry here plus new document fields.
var fuelCategoryCodes = map[string][]string{
	"unleaded": {"U91", "E10"},
	"premium":  {"P95", "P98"},
	"diesel":   {"DL"},
}

// AggregatePrices reduces raw feed observations into one representative price
// per fuel category. The median is used rather than the mean so a single
// mispriced station cannot drag the figure. Prices that are zero, negative or
// NaN are discarded as sensor noise before aggregation. A category with no
// valid observations gets a nil price and a zero count; that is partial data,
// not an error.
func AggregatePrices(observations []models.PriceObservation, now time.Time) models.LatestPriceSnapshot {
	unleaded, unleadedCount := medianForCategory(observations, fuelCategoryCodes["unleaded"])
	premium, premiumCount := medianForCategory(observations, fuelCategoryCodes["premium"])
	diesel, dieselCount := medianForCategory(observations, fuelCategoryCodes["diesel"])

	return models.LatestPriceSnapshot{
		Unleaded:    unleaded,
		Premium:     premium,
		Diesel:      diesel,
		LastUpdated: now,
		DataPoints: models.DataPoints{
			Unleaded: unleadedCount,
			Premium:  premiumCount,
			Diesel:   dieselCount,
		},
	}
}

// medianForCategory collects valid prices for the given codes and returns
// their median plus the number of observations that contributed.
func medianForCategory(observations []models.PriceObservation, codes []string) (*float64, int) {
	var prices []float64
	for _, obs := range observations {
		if !containsCode(codes, obs.FuelTypeCode) {
			continue
		}
		if obs.Price <= 0 || math.IsNaN(obs.Price) || math.IsInf(obs.Price, 0) {
			continue
		}
		prices = append(prices, obs.Price)
	}

	if len(prices) == 0 {
		return nil, 0
	}
	return models.Float(median(prices)), len(prices)
}

// median sorts ascending and takes the middle element, or the mean of the two
// middle elements for even-length input. The input slice is not modified.
func median(prices []float64) float64 {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
