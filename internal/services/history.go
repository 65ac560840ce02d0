package services

import (
	"sort"

	"fuel-tracker/internal/models"
)

// DateFormat is the calendar-date key format for history entries.
const DateFormat = "2006-01-02"

// MergeHistory merges entry into history by its date key. An existing entry
// for the same date is replaced in place, so a refresh retried on the same
// day never creates a duplicate. The result is sorted newest first and
// truncated to models.RetentionDays entries.
func MergeHistory(history []models.DailyPriceEntry, entry models.DailyPriceEntry) []models.DailyPriceEntry {
	merged := make([]models.DailyPriceEntry, 0, len(history)+1)
	replaced := false
	for _, existing := range history {
		if existing.Date == entry.Date {
			merged = append(merged, entry)
			replaced = true
			continue
		}
		merged = append(merged, existing)
	}
	if !replaced {
		merged = append(merged, entry)
	}

	// ISO dates sort lexically, newest first
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})

	if len(merged) > models.RetentionDays {
		merged = merged[:models.RetentionDays]
	}
	return merged
}

// RollingAverage computes per-category means over the min(window, len) most
// recent entries of a newest-first history. Days missing a category are
// skipped for that category only: the divisor is the count of days that had a
// value, never the window size. A category with no values in the window
// averages to nil.
func RollingAverage(history []models.DailyPriceEntry, window int) models.CategoryPrices {
	if window > len(history) {
		window = len(history)
	}
	recent := history[:window]

	return models.CategoryPrices{
		Unleaded: meanOf(recent, func(e models.DailyPriceEntry) *float64 { return e.Unleaded }),
		Premium:  meanOf(recent, func(e models.DailyPriceEntry) *float64 { return e.Premium }),
		Diesel:   meanOf(recent, func(e models.DailyPriceEntry) *float64 { return e.Diesel }),
	}
}

func meanOf(entries []models.DailyPriceEntry, pick func(models.DailyPriceEntry) *float64) *float64 {
	sum := 0.0
	count := 0
	for _, e := range entries {
		if v := pick(e); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return models.Float(sum / float64(count))
}
