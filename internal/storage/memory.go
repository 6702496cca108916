package storage

import (
	"context"
	"sync"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
)

// MemoryMaxes is an in-process MaxRepo for memory-only runs and tests.
type MemoryMaxes struct {
	mu      sync.Mutex
	records []models.MaxRecord
}

// NewMemoryMaxes returns an empty in-memory max repository.
func NewMemoryMaxes() *MemoryMaxes {
	return &MemoryMaxes{}
}

func (m *MemoryMaxes) RecordMax(_ context.Context, exercise string, weightKg float64) (models.MaxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := models.MaxRecord{
		ID:         uuid.NewString(),
		Exercise:   exercise,
		WeightKg:   weightKg,
		RecordedAt: time.Now().UTC(),
	}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *MemoryMaxes) CurrentMaxes(_ context.Context) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxes := make(map[string]float64)
	for _, rec := range m.records {
		maxes[rec.Exercise] = rec.WeightKg // appended in time order, last wins
	}
	return maxes, nil
}

func (m *MemoryMaxes) MaxHistory(_ context.Context, exercise string) ([]models.MaxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.MaxRecord
	for _, rec := range m.records {
		if rec.Exercise == exercise {
			result = append(result, rec)
		}
	}
	return result, nil
}
