package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"SensorLedger/internal/models"
	"SensorLedger/internal/repository"
)

// ErrMissingField is returned when a required reading value is absent.
var ErrMissingField = errors.New("missing field")

// DefaultMirrorTimeout bounds each mirror call; it must stay well under the
// server's write timeout.
const DefaultMirrorTimeout = 2 * time.Second

// Mirror receives every reading after it has been written to the ledger.
type Mirror interface {
	Name() string
	Mirror(ctx context.Context, reading models.Reading) error
}

// LedgerService handles the business logic for recording sensor readings.
type LedgerService struct {
	repo          repository.Repository
	mirrors       []Mirror
	mirrorTimeout time.Duration
	now           func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repo repository.Repository, mirrors ...Mirror) *LedgerService {
	return &LedgerService{
		repo:          repo,
		mirrors:       mirrors,
		mirrorTimeout: DefaultMirrorTimeout,
		now:           time.Now,
	}
}

// WithMirrorTimeout sets how long a single mirror call may take.
// Non-positive values keep the current timeout.
func (s *LedgerService) WithMirrorTimeout(d time.Duration) *LedgerService {
	if d > 0 {
		s.mirrorTimeout = d
	}
	return s
}

// RecordReading stamps the temperature and humidity from req with the
// current local time and appends them to the ledger. It returns the new
// total number of entries.
func (s *LedgerService) RecordReading(ctx context.Context, req models.AddDataRequest) (int, error) {
	temperature, ok := req["temperature"]
	if !ok {
		return 0, fmt.Errorf("%w: temperature", ErrMissingField)
	}
	humidity, ok := req["humidity"]
	if !ok {
		return 0, fmt.Errorf("%w: humidity", ErrMissingField)
	}

	reading, count, err := s.repo.AppendFunc(func() models.Reading {
		return models.NewReading(temperature, humidity, s.now())
	})
	if err != nil {
		return 0, fmt.Errorf("error appending reading: %w", err)
	}
	log.Printf("✅ New entry added: %s", reading)

	s.mirror(ctx, reading)
	return count, nil
}

// mirror hands reading to every mirror. Each call runs on a context that
// survives the client hanging up but is cut off after mirrorTimeout.
func (s *LedgerService) mirror(ctx context.Context, reading models.Reading) {
	base := context.WithoutCancel(ctx)
	for _, m := range s.mirrors {
		mctx, cancel := context.WithTimeout(base, s.mirrorTimeout)
		err := m.Mirror(mctx, reading)
		cancel()
		if err != nil {
			log.Printf("⚠️ Mirror %s failed: %v", m.Name(), err)
		}
	}
}

// Count returns the current number of ledger entries.
func (s *LedgerService) Count() int {
	return s.repo.Count()
}
