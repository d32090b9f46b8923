package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"med-adherence-tracker/internal/domain/adherence"
)

// adherenceRepo guarda los logs en un map indexado por slot, así la
// unicidad por (user, medication, fecha, hora) queda garantizada por
// construcción: dos marcas concurrentes del mismo slot pisan la misma
// entrada bajo el lock, nunca duplican.
type adherenceRepo struct {
	mu     sync.RWMutex
	bySlot map[string]adherence.Log
}

func NewAdherenceRepo() adherence.Repository {
	return &adherenceRepo{
		bySlot: make(map[string]adherence.Log),
	}
}

func (r *adherenceRepo) Upsert(ctx context.Context, l adherence.Log) (adherence.Log, error) {
	if strings.TrimSpace(l.ID) == "" {
		return adherence.Log{}, errors.New("log id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(l.UserID, l.MedicationID, l.ScheduledDate, l.ScheduledTime)

	if existing, ok := r.bySlot[key]; ok {
		// update in place: conserva id y created_at originales
		existing.Status = l.Status
		existing.UpdatedAt = l.UpdatedAt
		r.bySlot[key] = existing
		return existing, nil
	}

	r.bySlot[key] = l
	return l, nil
}

func (r *adherenceRepo) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]adherence.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromKey := dayKey(from)
	toKey := dayKey(to)

	out := make([]adherence.Log, 0)
	for _, l := range r.bySlot {
		if l.UserID != userID {
			continue
		}
		// "YYYY-MM-DD" compara bien como string
		k := dayKey(l.ScheduledDate)
		if k < fromKey || k > toKey {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		ki, kj := dayKey(out[i].ScheduledDate), dayKey(out[j].ScheduledDate)
		if ki != kj {
			return ki < kj
		}
		return out[i].ScheduledTime < out[j].ScheduledTime
	})

	return out, nil
}

func (r *adherenceRepo) PurgeMedication(ctx context.Context, userID, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, l := range r.bySlot {
		if l.UserID == userID && l.MedicationID == medicationID {
			delete(r.bySlot, key)
		}
	}
	return nil
}

func slotKey(userID, medicationID string, date time.Time, timeOfDay string) string {
	return userID + "|" + medicationID + "|" + dayKey(date) + "|" + timeOfDay
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
