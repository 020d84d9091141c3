package ratings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Rating categories submitted per supplier per anonymous session.
const (
	CategoryQuality       = "quality"
	CategoryCommunication = "communication"
	CategoryDeliveryTime  = "delivery_time"
	CategoryOverall       = "overall"
)

// Categories lists the accepted category keys in display order.
var Categories = []string{CategoryQuality, CategoryCommunication, CategoryDeliveryTime, CategoryOverall}

// Record holds one anonymous session's scores for a supplier. Zero means the
// category has not been rated.
type Record struct {
	Quality       int `json:"quality"`
	Communication int `json:"communication"`
	DeliveryTime  int `json:"delivery_time"`
	Overall       int `json:"overall"`
}

// IsZero reports whether no category has been rated yet.
func (r Record) IsZero() bool {
	return r.Quality == 0 && r.Communication == 0 && r.DeliveryTime == 0 && r.Overall == 0
}

// Aggregate reduces the record to a single score. An explicit overall rating
// wins; otherwise the rated categories are averaged.
func (r Record) Aggregate() decimal.Decimal {
	if r.Overall > 0 {
		return decimal.NewFromInt(int64(r.Overall))
	}
	if r.IsZero() {
		return decimal.Zero
	}
	sum := decimal.NewFromInt(int64(r.Quality + r.Communication + r.DeliveryTime))
	return sum.Div(decimal.NewFromInt(3)).Round(2)
}

func storageKey(supplierID, anonID string) string {
	return fmt.Sprintf("ratings:%s:%s", supplierID, anonID)
}

// Store persists per-session ratings keyed by supplier and anonymous id.
type Store struct {
	store kv.Store
	logg  *logger.Logger
}

func NewStore(store kv.Store, logg *logger.Logger) *Store {
	return &Store{store: store, logg: logg}
}

// Get returns the stored record for the pair. Missing or malformed data reads
// as an empty record.
func (s *Store) Get(ctx context.Context, supplierID, anonID string) Record {
	raw, err := s.store.Get(ctx, storageKey(supplierID, anonID))
	if err != nil {
		return Record{}
	}
	var record Record
	if jsonErr := json.Unmarshal([]byte(raw), &record); jsonErr != nil {
		return Record{}
	}
	return record
}

// SetCategory merges a single category score into the stored record. Scores
// run 1 to 5.
func (s *Store) SetCategory(ctx context.Context, supplierID, anonID, category string, value int) (Record, error) {
	if value < 1 || value > 5 {
		return Record{}, errors.New(errors.CodeValidation, "rating value must be between 1 and 5")
	}

	record := s.Get(ctx, supplierID, anonID)
	switch category {
	case CategoryQuality:
		record.Quality = value
	case CategoryCommunication:
		record.Communication = value
	case CategoryDeliveryTime:
		record.DeliveryTime = value
	case CategoryOverall:
		record.Overall = value
	default:
		return Record{}, errors.New(errors.CodeValidation, "unknown rating category")
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return Record{}, errors.Wrap(errors.CodeInternal, err, "encoding rating record")
	}
	if err := s.store.Set(ctx, storageKey(supplierID, anonID), string(encoded)); err != nil {
		s.logg.Warn(ctx, "persisting rating failed")
	}
	return record, nil
}
