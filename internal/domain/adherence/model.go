package adherence

import "time"

// Status es el estado de un slot (medicamento + hora en una fecha).
// @Enum upcoming, taken, missed
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusTaken    Status = "taken"
	StatusMissed   Status = "missed"
)

// Log registra el desenlace de un slot. Diseño sparse: solo se escriben
// filas al resolver una toma (taken/missed); la ausencia de fila significa
// upcoming. Como mucho una fila por
// (userID, medicationID, scheduledDate, scheduledTime).
type Log struct {
	ID           string
	UserID       string
	MedicationID string

	ScheduledDate time.Time // truncada a medianoche
	ScheduledTime string    // "HH:MM"

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleEntry es una fila del schedule del día: el slot esperado
// con el estado registrado superpuesto.
type ScheduleEntry struct {
	MedicationID   string
	MedicationName string
	Dosage         string
	ScheduledTime  string
	Status         Status
	LogID          string // vacío => sin log, status default upcoming
}

type TodayStats struct {
	Taken    int
	Missed   int
	Upcoming int
}

type WindowStats struct {
	TotalScheduled int
	TotalTaken     int
	TotalMissed    int
	TotalUpcoming  int
	AdherenceRate  int
}

type DailyRate struct {
	Date string // "YYYY-MM-DD"
	Rate int
}

type Stats struct {
	TotalMedications int
	Today            TodayStats
	Last7Days        WindowStats
	DailyRates       []DailyRate
}
