package medications

import "time"

// Medication es un medicamento con su pauta diaria de tomas.
// Schedule guarda horas "HH:MM" (24h, zero-padded); el orden no es
// significativo, los lectores ordenan al presentar.
type Medication struct {
	ID          string
	OwnerUserID string

	Name     string
	Dosage   string
	Schedule []string
	Notes    string

	// Reminders indica si el frontend debe programar avisos.
	Reminders bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
