package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"fuel-tracker/internal/models"
)

// DocumentStore is the boundary to the external document store. GetDocument
// returns pricestore.ErrNotFound-style errors when nothing has been persisted
// yet; the service treats any read error the same way.
type DocumentStore interface {
	GetDocument(ctx context.Context, key string) (*models.PriceDocument, error)
	PutDocument(ctx context.Context, key string, doc *models.PriceDocument) error
}

// Hardcoded fallback prices (AUD cents per litre), served only when the store
// has nothing usable. Callers can tell them apart via the fallback flag.
const (
	fallbackUnleaded = 189.9
	fallbackPremium  = 215.9
	fallbackDiesel   = 195.9
)

// PriceService orchestrates aggregation, history merge, rolling averages and
// persistence. Refresh is the only writer of the price document.
type PriceService struct {
	store  DocumentStore
	logger *log.Logger
	now    func() time.Time
}

func NewPriceService(store DocumentStore, logger *log.Logger) *PriceService {
	if logger == nil {
		logger = log.Default()
	}
	return &PriceService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Refresh runs the full pipeline over one cycle of raw observations and
// persists the resulting document. A failed read of prior history degrades to
// an empty history; a failed write is fatal because a refresh that computed
// but did not persist has no effect.
func (s *PriceService) Refresh(ctx context.Context, observations []models.PriceObservation) (*models.PriceDocument, error) {
	now := s.now()
	snapshot := AggregatePrices(observations, now)

	var history []models.DailyPriceEntry
	existing, err := s.store.GetDocument(ctx, models.DocumentKey)
	if err != nil {
		s.logger.Printf("WARN: could not read prior price document, starting with empty history: %v", err)
	} else if existing != nil {
		history = existing.History
	}

	// History entries are lean: the data-point counts stay on the snapshot only
	entry := models.DailyPriceEntry{
		Date:     now.Format(DateFormat),
		Unleaded: snapshot.Unleaded,
		Premium:  snapshot.Premium,
		Diesel:   snapshot.Diesel,
	}
	history = MergeHistory(history, entry)

	doc := &models.PriceDocument{
		Latest: snapshot,
		Averages: models.AveragesBlock{
			Last7Days:  RollingAverage(history, 7),
			Last30Days: RollingAverage(history, 30),
		},
		History:     history,
		LastUpdated: now,
	}

	if err := s.store.PutDocument(ctx, models.DocumentKey, doc); err != nil {
		return nil, fmt.Errorf("failed to persist price document: %w", err)
	}

	s.logger.Printf("Refreshed fuel prices: %d observations, %d history days", len(observations), len(doc.History))
	return doc, nil
}

// Current returns the persisted document, or the static fallback document if
// the store is empty or unreachable. It never fails; a read client always
// gets a structurally valid document.
func (s *PriceService) Current(ctx context.Context) *models.PriceDocument {
	doc, err := s.store.GetDocument(ctx, models.DocumentKey)
	if err != nil {
		s.logger.Printf("WARN: serving fallback price document: %v", err)
		return FallbackDocument(s.now())
	}
	if doc == nil {
		return FallbackDocument(s.now())
	}
	return doc
}

// FallbackDocument builds the zero-history document with plausible default
// prices. The averages equal the defaults so the shape matches a real
// document exactly.
func FallbackDocument(now time.Time) *models.PriceDocument {
	defaults := models.CategoryPrices{
		Unleaded: models.Float(fallbackUnleaded),
		Premium:  models.Float(fallbackPremium),
		Diesel:   models.Float(fallbackDiesel),
	}
	return &models.PriceDocument{
		Latest: models.LatestPriceSnapshot{
			Unleaded:    defaults.Unleaded,
			Premium:     defaults.Premium,
			Diesel:      defaults.Diesel,
			LastUpdated: now,
		},
		Averages: models.AveragesBlock{
			Last7Days:  defaults,
			Last30Days: defaults,
		},
		History:     []models.DailyPriceEntry{},
		LastUpdated: now,
		Fallback:    true,
	}
}
