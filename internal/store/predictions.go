package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/clever-tips/internal/models"
)

// PredictionRepository stores the predictions produced by a run
type PredictionRepository interface {
	SaveBatch(ctx context.Context, predictions []*models.MatchPrediction) error
	GetByDate(ctx context.Context, day time.Time) ([]*models.MatchPrediction, error)
}

// dayBounds returns [start, end) of the calendar day containing t, in t's location
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// predictionKey identifies one strategy's prediction for one fixture. A rerun
// for the same fixture and strategy replaces the stored record.
type predictionKey struct {
	fixtureID string
	home      string
	away      string
	kickoff   int64
	strategy  string
}

func keyOf(p *models.MatchPrediction) predictionKey {
	return predictionKey{
		fixtureID: p.FixtureID,
		home:      p.Home,
		away:      p.Away,
		kickoff:   p.Kickoff.UnixMicro(),
		strategy:  p.Strategy,
	}
}

// ensureID assigns a fresh ID to a prediction that has none
func ensureID(p *models.MatchPrediction) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}

// validatePrediction rejects a prediction that cannot be stored under its natural key
func validatePrediction(p *models.MatchPrediction) error {
	if p.Home == "" || p.Away == "" {
		return fmt.Errorf("%w: home and away teams are required", models.ErrInvalidPrediction)
	}
	if !p.Pick.IsValid() {
		return fmt.Errorf("%w: unknown pick %q", models.ErrInvalidPrediction, p.Pick)
	}
	return nil
}

// validateBatch checks every non-nil prediction before anything is written
func validateBatch(predictions []*models.MatchPrediction) error {
	for _, p := range predictions {
		if p == nil {
			continue
		}
		if err := validatePrediction(p); err != nil {
			return err
		}
	}
	return nil
}

// MemoryPredictionRepository keeps predictions in process memory
type MemoryPredictionRepository struct {
	mu          sync.RWMutex
	predictions map[predictionKey]models.MatchPrediction
}

// NewMemoryPredictionRepository creates an empty in-memory repository
func NewMemoryPredictionRepository() *MemoryPredictionRepository {
	return &MemoryPredictionRepository{predictions: make(map[predictionKey]models.MatchPrediction)}
}

// SaveBatch stores copies of predictions. A prediction for a fixture and
// strategy already stored replaces it and keeps the stored ID. An invalid
// prediction rejects the whole batch.
func (r *MemoryPredictionRepository) SaveBatch(_ context.Context, predictions []*models.MatchPrediction) error {
	if err := validateBatch(predictions); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range predictions {
		if p == nil {
			continue
		}
		key := keyOf(p)
		if existing, ok := r.predictions[key]; ok {
			p.ID = existing.ID
		}
		ensureID(p)
		r.predictions[key] = *p
	}
	return nil
}

// GetByDate returns predictions kicking off on day, ordered by kickoff then home team
func (r *MemoryPredictionRepository) GetByDate(_ context.Context, day time.Time) ([]*models.MatchPrediction, error) {
	start, end := dayBounds(day)

	r.mu.RLock()
	out := make([]*models.MatchPrediction, 0)
	for _, p := range r.predictions {
		if !p.Kickoff.Before(start) && p.Kickoff.Before(end) {
			cp := p
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].Home < out[j].Home
	})
	return out, nil
}

// Len returns the number of stored predictions
func (r *MemoryPredictionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.predictions)
}
