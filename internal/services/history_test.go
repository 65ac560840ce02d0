package services

import (
	"fmt"
	"testing"
	"time"

	"fuel-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date string, unleaded float64) models.DailyPriceEntry {
	return models.DailyPriceEntry{Date: date, Unleaded: models.Float(unleaded)}
}

func TestMergeHistoryAppendsNewDate(t *testing.T) {
	history := []models.DailyPriceEntry{entry("2026-08-29", 180.0)}

	merged := MergeHistory(history, entry("2026-08-30", 181.0))

	require.Len(t, merged, 2)
	assert.Equal(t, "2026-08-30", merged[0].Date)
	assert.Equal(t, "2026-08-29", merged[1].Date)
}

func TestMergeHistoryReplacesSameDate(t *testing.T) {
	history := []models.DailyPriceEntry{
		entry("2026-08-30", 180.0),
		entry("2026-08-29", 179.0),
	}

	merged := MergeHistory(history, entry("2026-08-30", 182.0))

	require.Len(t, merged, 2)
	assert.Equal(t, "2026-08-30", merged[0].Date)
	assert.Equal(t, 182.0, *merged[0].Unleaded)
}

func TestMergeHistoryIdempotentRerun(t *testing.T) {
	var history []models.DailyPriceEntry
	today := entry("2026-08-30", 181.5)

	history = MergeHistory(history, today)
	history = MergeHistory(history, today)

	assert.Len(t, history, 1)
}

func TestMergeHistorySortsDescendingRegardlessOfInputOrder(t *testing.T) {
	history := []models.DailyPriceEntry{
		entry("2026-08-25", 1),
		entry("2026-08-28", 2),
		entry("2026-08-26", 3),
	}

	merged := MergeHistory(history, entry("2026-08-27", 4))

	dates := []string{merged[0].Date, merged[1].Date, merged[2].Date, merged[3].Date}
	assert.Equal(t, []string{"2026-08-28", "2026-08-27", "2026-08-26", "2026-08-25"}, dates)
}

func TestMergeHistoryRetentionBound(t *testing.T) {
	var history []models.DailyPriceEntry
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	for day := 0; day < 35; day++ {
		date := start.AddDate(0, 0, day).Format(DateFormat)
		history = MergeHistory(history, entry(date, float64(day)))
		assert.LessOrEqual(t, len(history), models.RetentionDays)
	}

	require.Len(t, history, models.RetentionDays)
	// Newest first; the five oldest days fell off
	assert.Equal(t, "2026-08-04", history[0].Date)
	assert.Equal(t, "2026-07-06", history[len(history)-1].Date)
	for _, e := range history {
		assert.Greater(t, e.Date, "2026-07-05")
	}
}

func TestRollingAverageSkipsNilValues(t *testing.T) {
	history := []models.DailyPriceEntry{
		{Date: "2026-08-30", Diesel: nil},
	}
	for i := 1; i <= 6; i++ {
		history = append(history, models.DailyPriceEntry{
			Date:   fmt.Sprintf("2026-08-%02d", 30-i),
			Diesel: models.Float(190.0 + float64(i)),
		})
	}

	avg := RollingAverage(history, 7)

	require.NotNil(t, avg.Diesel)
	// Mean of the six valid values, not divided by seven
	assert.InDelta(t, (191.0+192+193+194+195+196)/6, *avg.Diesel, 1e-9)
	assert.Nil(t, avg.Unleaded)
}

func TestRollingAverageWindowLargerThanHistory(t *testing.T) {
	history := []models.DailyPriceEntry{
		entry("2026-08-30", 180.0),
		entry("2026-08-29", 184.0),
	}

	avg := RollingAverage(history, 30)

	require.NotNil(t, avg.Unleaded)
	assert.Equal(t, 182.0, *avg.Unleaded)
}

func TestRollingAverageOnlyUsesWindow(t *testing.T) {
	history := []models.DailyPriceEntry{
		entry("2026-08-30", 100.0),
		entry("2026-08-29", 200.0),
		entry("2026-08-28", 900.0),
	}

	avg := RollingAverage(history, 2)

	require.NotNil(t, avg.Unleaded)
	assert.Equal(t, 150.0, *avg.Unleaded)
}

func TestRollingAverageEmptyHistory(t *testing.T) {
	avg := RollingAverage(nil, 7)

	assert.Nil(t, avg.Unleaded)
	assert.Nil(t, avg.Premium)
	assert.Nil(t, avg.Diesel)
}
