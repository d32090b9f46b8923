package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name     string
	Dosage   string
	Schedule []string
	Notes    string

	// Reminders: nil => default true.
	Reminders *bool
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}

	schedule := normalizeSchedule(in.Schedule)
	if schedule == nil {
		return Medication{}, ErrInvalidInput
	}

	reminders := true
	if in.Reminders != nil {
		reminders = *in.Reminders
	}

	now := s.now()
	m := Medication{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Dosage:      strings.TrimSpace(in.Dosage),
		Schedule:    schedule,
		Notes:       strings.TrimSpace(in.Notes),
		Reminders:   reminders,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Update reemplaza todos los campos mutables (no es PATCH).
// La medicación debe pertenecer al caller; un id ajeno responde
// not-found para no filtrar existencia.
func (s *Service) Update(ctx context.Context, ownerUserID, id string, in CreateInput) (Medication, error) {
	current, err := s.getOwned(ctx, ownerUserID, id)
	if err != nil {
		return Medication{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	schedule := normalizeSchedule(in.Schedule)
	if schedule == nil {
		return Medication{}, ErrInvalidInput
	}

	reminders := true
	if in.Reminders != nil {
		reminders = *in.Reminders
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Dosage = strings.TrimSpace(in.Dosage)
	current.Schedule = schedule
	current.Notes = strings.TrimSpace(in.Notes)
	current.Reminders = reminders
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Medication{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	if _, err := s.getOwned(ctx, ownerUserID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrNotFound
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) getOwned(ctx context.Context, ownerUserID, id string) (Medication, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.OwnerUserID != ownerUserID {
		// not-found, no forbidden: no revelamos que el recurso existe
		return Medication{}, ErrNotFound
	}
	return m, nil
}
