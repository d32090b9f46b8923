package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsAndTrimming(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "  Amoxicillin ",
		Dosage:   "500mg",
		Schedule: []string{" 08:00", "20:00 "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Name != "Amoxicillin" {
		t.Fatalf("expected trimmed name, got %q", m.Name)
	}
	if len(m.Schedule) != 2 || m.Schedule[0] != "08:00" || m.Schedule[1] != "20:00" {
		t.Fatalf("expected trimmed schedule, got %v", m.Schedule)
	}
	if !m.Reminders {
		t.Fatalf("reminders should default to true")
	}
	if !m.CreatedAt.Equal(now) || !m.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps = now, got %v / %v", m.CreatedAt, m.UpdatedAt)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name  string
		owner string
		in    CreateInput
	}{
		{"empty owner", "", CreateInput{Name: "A", Schedule: []string{"08:00"}}},
		{"empty name", "user-1", CreateInput{Name: "  ", Schedule: []string{"08:00"}}},
		{"empty schedule", "user-1", CreateInput{Name: "A", Schedule: nil}},
		{"non padded hour", "user-1", CreateInput{Name: "A", Schedule: []string{"8:00"}}},
		{"hour out of range", "user-1", CreateInput{Name: "A", Schedule: []string{"24:00"}}},
		{"minute out of range", "user-1", CreateInput{Name: "A", Schedule: []string{"12:60"}}},
		{"garbage entry", "user-1", CreateInput{Name: "A", Schedule: []string{"08:00", "noon"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.owner, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUpdate_FullReplace(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "Amoxicillin",
		Dosage:   "500mg",
		Schedule: []string{"08:00", "20:00"},
		Notes:    "with food",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-1", created.ID, CreateInput{
		Name:     "Amoxicillin forte",
		Schedule: []string{"09:00"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// replace total: los campos no enviados quedan en su zero value
	if updated.Name != "Amoxicillin forte" {
		t.Fatalf("expected new name, got %q", updated.Name)
	}
	if updated.Dosage != "" || updated.Notes != "" {
		t.Fatalf("expected full replace to clear dosage/notes, got %q / %q", updated.Dosage, updated.Notes)
	}
	if len(updated.Schedule) != 1 || updated.Schedule[0] != "09:00" {
		t.Fatalf("expected replaced schedule, got %v", updated.Schedule)
	}
	if updated.OwnerUserID != "user-1" || updated.ID != created.ID {
		t.Fatalf("identity fields must not change: %+v", updated)
	}
}

func TestUpdate_ForeignOwner_NotFoundAndUnchanged(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "Amoxicillin",
		Schedule: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), "user-2", created.ID, CreateInput{
		Name:     "Hijacked",
		Schedule: []string{"09:00"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}

	// el registro original queda intacto
	stored := repo.byID[created.ID]
	if stored.Name != "Amoxicillin" || stored.Schedule[0] != "08:00" {
		t.Fatalf("record mutated by rejected update: %+v", stored)
	}
}

func TestDelete_ForeignOwner_NotFound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "Amoxicillin",
		Schedule: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := repo.byID[created.ID]; !ok {
		t.Fatalf("medication deleted by non-owner")
	}

	if err := svc.Delete(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := repo.byID[created.ID]; ok {
		t.Fatalf("medication should be gone")
	}
}

func TestValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "08:30", "12:00", "23:59"}
	invalid := []string{"24:00", "7:00", "12:5", "12:60", "ab:cd", "", "12:00pm"}

	for _, s := range valid {
		if !ValidTimeOfDay(s) {
			t.Fatalf("expected %q valid", s)
		}
	}
	for _, s := range invalid {
		if ValidTimeOfDay(s) {
			t.Fatalf("expected %q invalid", s)
		}
	}
}
