package fuelfeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"fuel-tracker/internal/models"
)

// ErrUnrecognizedPayload is returned when the feed body matches none of the
// known shapes. Unknown shapes fail fast here instead of leaking zero values
// into the pipeline.
var ErrUnrecognizedPayload = errors.New("unrecognized fuel feed payload shape")

// rawRecord tolerates the feed's inconsistent field spellings. Price arrives
// either as a JSON number or a numeric string depending on the endpoint
// version.
type rawRecord struct {
	FuelType  string          `json:"fueltype"`
	FuelType2 string          `json:"FuelType"`
	Code      string          `json:"fuel_type_code"`
	Price     json.RawMessage `json:"price"`
	Price2    json.RawMessage `json:"Price"`
}

type rawPayload struct {
	Prices  []rawRecord `json:"prices"`
	Prices2 []rawRecord `json:"Prices"`
}

// ParseObservations normalizes a raw feed body into the strict observation
// shape. The payload as a whole must be recognizable; individual malformed
// records are skipped rather than failing the batch.
func ParseObservations(body []byte) ([]models.PriceObservation, error) {
	var payload rawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedPayload, err)
	}

	records := payload.Prices
	if len(records) == 0 {
		records = payload.Prices2
	}
	if len(records) == 0 {
		// A feed with a recognizable envelope but no price array is still an
		// unusable shape
		return nil, ErrUnrecognizedPayload
	}

	observations := make([]models.PriceObservation, 0, len(records))
	for _, rec := range records {
		code := rec.FuelType
		if code == "" {
			code = rec.FuelType2
		}
		if code == "" {
			code = rec.Code
		}
		if code == "" {
			continue
		}

		price, ok := parsePrice(rec.Price)
		if !ok {
			price, ok = parsePrice(rec.Price2)
		}
		if !ok {
			continue
		}

		observations = append(observations, models.PriceObservation{
			FuelTypeCode: code,
			Price:        price,
		})
	}
	return observations, nil
}

func parsePrice(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if num, err := strconv.ParseFloat(str, 64); err == nil {
			return num, true
		}
	}
	return 0, false
}
