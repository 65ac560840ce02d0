package services

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"fuel-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	doc    *models.PriceDocument
	getErr error
	putErr error
	puts   int
}

func (f *fakeStore) GetDocument(ctx context.Context, key string) (*models.PriceDocument, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.doc, nil
}

func (f *fakeStore) PutDocument(ctx context.Context, key string, doc *models.PriceDocument) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.doc = doc
	return nil
}

func newTestService(store *fakeStore, now time.Time) *PriceService {
	svc := NewPriceService(store, log.New(testWriter{}, "", 0))
	svc.now = func() time.Time { return now }
	return svc
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func sampleObservations() []models.PriceObservation {
	return []models.PriceObservation{
		{FuelTypeCode: "U91", Price: 180.1},
		{FuelTypeCode: "E10", Price: 179.9},
		{FuelTypeCode: "P95", Price: 205.0},
		{FuelTypeCode: "DL", Price: 190.0},
	}
}

func TestRefreshPersistsAssembledDocument(t *testing.T) {
	store := &fakeStore{getErr: errors.New("nothing persisted yet")}
	now := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, now)

	doc, err := svc.Refresh(context.Background(), sampleObservations())

	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, store.puts)
	assert.Equal(t, doc, store.doc)

	require.Len(t, doc.History, 1)
	assert.Equal(t, "2026-08-30", doc.History[0].Date)
	assert.InDelta(t, 180.0, *doc.Latest.Unleaded, 1e-9)
	assert.Equal(t, now, doc.LastUpdated)
	assert.False(t, doc.Fallback)

	// With a single day of history both windows equal today's prices
	assert.InDelta(t, 180.0, *doc.Averages.Last7Days.Unleaded, 1e-9)
	assert.Equal(t, 190.0, *doc.Averages.Last30Days.Diesel)
}

func TestRefreshSameDayIsIdempotent(t *testing.T) {
	store := &fakeStore{getErr: errors.New("empty")}
	now := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, now)

	_, err := svc.Refresh(context.Background(), sampleObservations())
	require.NoError(t, err)

	// Second run later the same day with different prices
	store.getErr = nil
	svc.now = func() time.Time { return now.Add(8 * time.Hour) }
	second := sampleObservations()
	second[3].Price = 188.0
	doc, err := svc.Refresh(context.Background(), second)

	require.NoError(t, err)
	require.Len(t, doc.History, 1)
	assert.Equal(t, "2026-08-30", doc.History[0].Date)
	assert.Equal(t, 188.0, *doc.History[0].Diesel)
}

func TestRefreshAccumulatesDailyHistory(t *testing.T) {
	store := &fakeStore{getErr: errors.New("empty")}
	start := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	svc := newTestService(store, start)

	for day := 0; day < 35; day++ {
		current := start.AddDate(0, 0, day)
		svc.now = func() time.Time { return current }
		doc, err := svc.Refresh(context.Background(), sampleObservations())
		require.NoError(t, err)
		assert.LessOrEqual(t, len(doc.History), models.RetentionDays)
		store.getErr = nil
	}

	assert.Len(t, store.doc.History, models.RetentionDays)
}

func TestRefreshProceedsWhenPriorReadFails(t *testing.T) {
	store := &fakeStore{getErr: errors.New("store unreachable")}
	svc := newTestService(store, time.Now())

	doc, err := svc.Refresh(context.Background(), sampleObservations())

	require.NoError(t, err)
	assert.Len(t, doc.History, 1)
}

func TestRefreshWriteFailureIsFatal(t *testing.T) {
	store := &fakeStore{getErr: errors.New("empty"), putErr: errors.New("credentials missing")}
	svc := newTestService(store, time.Now())

	doc, err := svc.Refresh(context.Background(), sampleObservations())

	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "persist")
}

func TestCurrentReturnsPersistedDocument(t *testing.T) {
	persisted := &models.PriceDocument{
		Latest:      models.LatestPriceSnapshot{Unleaded: models.Float(181.0)},
		History:     []models.DailyPriceEntry{{Date: "2026-08-30"}},
		LastUpdated: time.Now(),
	}
	store := &fakeStore{doc: persisted}
	svc := newTestService(store, time.Now())

	doc := svc.Current(context.Background())

	assert.Equal(t, persisted, doc)
	assert.False(t, doc.Fallback)
}

func TestCurrentFallsBackOnReadError(t *testing.T) {
	store := &fakeStore{getErr: errors.New("store down")}
	svc := newTestService(store, time.Now())

	doc := svc.Current(context.Background())

	require.NotNil(t, doc)
	assert.True(t, doc.Fallback)
	require.NotNil(t, doc.Latest.Unleaded)
	require.NotNil(t, doc.Latest.Premium)
	require.NotNil(t, doc.Latest.Diesel)
	assert.NotNil(t, doc.Averages.Last7Days.Unleaded)
	assert.Empty(t, doc.History)
}

func TestCurrentFallsBackOnEmptyStore(t *testing.T) {
	store := &fakeStore{} // doc nil, no error
	svc := newTestService(store, time.Now())

	doc := svc.Current(context.Background())

	require.NotNil(t, doc)
	assert.True(t, doc.Fallback)
}

func TestFallbackDocumentShape(t *testing.T) {
	now := time.Now()
	doc := FallbackDocument(now)

	assert.True(t, doc.Fallback)
	assert.Equal(t, now, doc.LastUpdated)
	assert.Equal(t, now, doc.Latest.LastUpdated)
	assert.NotNil(t, doc.History, "history must be an empty array, not null")
	assert.Equal(t, *doc.Latest.Unleaded, *doc.Averages.Last30Days.Unleaded)
}
