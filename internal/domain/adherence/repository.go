package adherence

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert crea o actualiza la fila del slot
	// (UserID, MedicationID, ScheduledDate, ScheduledTime).
	// La unicidad se resuelve en el store: si dos marcas concurrentes
	// chocan, la perdedora aplica como update, nunca como fila duplicada.
	// Devuelve la fila resultante (conserva id y created_at originales).
	Upsert(ctx context.Context, l Log) (Log, error)

	// ListByUserBetween devuelve los logs del usuario con
	// scheduledDate en [from, to], ambos inclusive.
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]Log, error)

	// PurgeMedication borra todos los logs del medicamento del usuario.
	PurgeMedication(ctx context.Context, userID, medicationID string) error
}
