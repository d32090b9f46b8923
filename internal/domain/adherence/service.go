package adherence

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"med-adherence-tracker/internal/domain/medications"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMedicationNotFound = errors.New("medication not found")
)

const windowDays = 7

// MedicationSource desacopla del *medications.Service concreto
// (y permite fakes en tests).
type MedicationSource interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error)
	GetByID(ctx context.Context, id string) (medications.Medication, error)
}

type Service struct {
	repo Repository
	meds MedicationSource
	now  func() time.Time
}

func NewService(repo Repository, meds MedicationSource) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

// TodaySchedule arma el schedule de hoy: un entry por
// (medicamento, hora de la pauta), con el estado registrado superpuesto.
func (s *Service) TodaySchedule(ctx context.Context, userID string) ([]ScheduleEntry, error) {
	return s.ScheduleForDay(ctx, userID, s.now())
}

func (s *Service) ScheduleForDay(ctx context.Context, userID string, day time.Time) ([]ScheduleEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	meds, err := s.meds.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	day = atMidnight(day)
	logs, err := s.repo.ListByUserBetween(ctx, userID, day, day)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[string]Log, len(logs))
	for _, l := range logs {
		bySlot[l.MedicationID+"|"+l.ScheduledTime] = l
	}

	entries := make([]ScheduleEntry, 0)
	for _, m := range meds {
		for _, t := range m.Schedule {
			e := ScheduleEntry{
				MedicationID:   m.ID,
				MedicationName: m.Name,
				Dosage:         m.Dosage,
				ScheduledTime:  t,
				Status:         StatusUpcoming,
			}
			if l, ok := bySlot[m.ID+"|"+t]; ok {
				e.Status = l.Status
				e.LogID = l.ID
			}
			entries = append(entries, e)
		}
	}

	// "HH:MM" zero-padded: el orden lexicográfico es el cronológico.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ScheduledTime < entries[j].ScheduledTime
	})

	return entries, nil
}

// Mark hace el upsert idempotente del slot de hoy al estado dado.
// Solo taken y missed son estados marcables; upcoming es la ausencia de fila.
// Marcar dos veces deja una sola fila (solo refresca updated_at).
func (s *Service) Mark(ctx context.Context, userID, medicationID, scheduledTime string, status Status) (Log, error) {
	userID = strings.TrimSpace(userID)
	medicationID = strings.TrimSpace(medicationID)
	scheduledTime = strings.TrimSpace(scheduledTime)

	if userID == "" || medicationID == "" || scheduledTime == "" {
		return Log{}, ErrInvalidInput
	}
	if !medications.ValidTimeOfDay(scheduledTime) {
		return Log{}, ErrInvalidInput
	}
	if status != StatusTaken && status != StatusMissed {
		return Log{}, ErrInvalidInput
	}

	// El medicamento debe pertenecer al caller; un id ajeno responde
	// not-found para no filtrar existencia.
	m, err := s.meds.GetByID(ctx, medicationID)
	if err != nil || m.OwnerUserID != userID {
		return Log{}, ErrMedicationNotFound
	}

	now := s.now()
	return s.repo.Upsert(ctx, Log{
		ID:            uuid.NewString(),
		UserID:        userID,
		MedicationID:  medicationID,
		ScheduledDate: atMidnight(now),
		ScheduledTime: scheduledTime,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// Stats computa el snapshot de hoy y la ventana de 7 días
// (hoy y los 6 días anteriores, inclusive).
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	if strings.TrimSpace(userID) == "" {
		return Stats{}, ErrInvalidInput
	}

	meds, err := s.meds.ListByOwner(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	dosesPerDay := 0
	for _, m := range meds {
		dosesPerDay += len(m.Schedule)
	}

	today := atMidnight(s.now())
	windowStart := today.AddDate(0, 0, -(windowDays - 1))

	logs, err := s.repo.ListByUserBetween(ctx, userID, windowStart, today)
	if err != nil {
		return Stats{}, err
	}

	// Agrupar por día calendario, comparando por string de fecha y no por
	// time.Equal: el store puede devolver la medianoche en otra zona.
	byDay := make(map[string][]Log)
	for _, l := range logs {
		k := dateKey(l.ScheduledDate)
		byDay[k] = append(byDay[k], l)
	}

	todayTaken, todayMissed := countResolved(byDay[dateKey(today)])
	totalTaken, totalMissed := countResolved(logs)

	// Simplificación conocida: un medicamento agregado a mitad de ventana
	// cuenta como esperado los 7 días completos.
	totalScheduled := dosesPerDay * windowDays

	dailyRates := make([]DailyRate, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		k := dateKey(day)
		taken, missed := countResolved(byDay[k])
		dailyRates = append(dailyRates, DailyRate{
			Date: k,
			Rate: adherenceRate(taken, missed),
		})
	}

	return Stats{
		TotalMedications: len(meds),
		Today: TodayStats{
			Taken:    todayTaken,
			Missed:   todayMissed,
			Upcoming: dosesPerDay - todayTaken - todayMissed,
		},
		Last7Days: WindowStats{
			TotalScheduled: totalScheduled,
			TotalTaken:     totalTaken,
			TotalMissed:    totalMissed,
			TotalUpcoming:  totalScheduled - totalTaken - totalMissed,
			AdherenceRate:  adherenceRate(totalTaken, totalMissed),
		},
		DailyRates: dailyRates,
	}, nil
}

// PurgeMedication implementa medications.AdherenceLogPurger.
// Se invoca después de borrar el medicamento, por eso no revalida ownership
// contra el catálogo: el filtro por userID en el store alcanza.
func (s *Service) PurgeMedication(ctx context.Context, userID, medicationID string) error {
	userID = strings.TrimSpace(userID)
	medicationID = strings.TrimSpace(medicationID)
	if userID == "" || medicationID == "" {
		return ErrInvalidInput
	}
	return s.repo.PurgeMedication(ctx, userID, medicationID)
}

// countResolved cuenta taken y missed; upcoming nunca entra al denominador.
func countResolved(logs []Log) (taken, missed int) {
	for _, l := range logs {
		switch l.Status {
		case StatusTaken:
			taken++
		case StatusMissed:
			missed++
		}
	}
	return taken, missed
}

// adherenceRate = round(taken/(taken+missed)*100); sin tomas resueltas => 0.
func adherenceRate(taken, missed int) int {
	resolved := taken + missed
	if resolved == 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(resolved) * 100))
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
