package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"med-adherence-tracker/internal/domain/adherence"

	"github.com/google/uuid"
)

func TestAdherenceUpsert_ConcurrentMarksSameSlot_OneRow(t *testing.T) {
	repo := NewAdherenceRepo().(*adherenceRepo)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Upsert(context.Background(), adherence.Log{
				ID:            uuid.NewString(),
				UserID:        "user-1",
				MedicationID:  "med-1",
				ScheduledDate: date,
				ScheduledTime: "08:00",
				Status:        adherence.StatusTaken,
				CreatedAt:     date,
				UpdatedAt:     date,
			})
			if err != nil {
				t.Errorf("upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(repo.bySlot) != 1 {
		t.Fatalf("expected 1 row after concurrent marks of one slot, got %d", len(repo.bySlot))
	}
}

func TestAdherenceUpsert_PreservesOriginalIdentity(t *testing.T) {
	repo := NewAdherenceRepo()

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(context.Background(), adherence.Log{
		ID:            "log-a",
		UserID:        "user-1",
		MedicationID:  "med-1",
		ScheduledDate: date,
		ScheduledTime: "08:00",
		Status:        adherence.StatusMissed,
		CreatedAt:     date,
		UpdatedAt:     date,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	later := date.Add(2 * time.Hour)
	second, err := repo.Upsert(context.Background(), adherence.Log{
		ID:            "log-b", // id nuevo: debe ignorarse, la fila ya existe
		UserID:        "user-1",
		MedicationID:  "med-1",
		ScheduledDate: date,
		ScheduledTime: "08:00",
		Status:        adherence.StatusTaken,
		CreatedAt:     later,
		UpdatedAt:     later,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected preserved id %q, got %q", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at must not change on update")
	}
	if second.Status != adherence.StatusTaken {
		t.Fatalf("expected status updated to taken, got %s", second.Status)
	}
	if !second.UpdatedAt.Equal(later) {
		t.Fatalf("expected refreshed updated_at")
	}
}

func TestAdherenceListByUserBetween_InclusiveRange(t *testing.T) {
	repo := NewAdherenceRepo()

	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	for _, d := range []int{1, 2, 3, 4, 5} {
		_, err := repo.Upsert(context.Background(), adherence.Log{
			ID:            uuid.NewString(),
			UserID:        "user-1",
			MedicationID:  "med-1",
			ScheduledDate: day(d),
			ScheduledTime: "08:00",
			Status:        adherence.StatusTaken,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	logs, err := repo.ListByUserBetween(context.Background(), "user-1", day(2), day(4))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs in [2,4], got %d", len(logs))
	}
	if !logs[0].ScheduledDate.Equal(day(2)) || !logs[2].ScheduledDate.Equal(day(4)) {
		t.Fatalf("expected bounds inclusive and sorted, got %v .. %v",
			logs[0].ScheduledDate, logs[2].ScheduledDate)
	}
}
