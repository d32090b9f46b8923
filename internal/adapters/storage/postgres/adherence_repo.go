package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"med-adherence-tracker/internal/domain/adherence"
)

type AdherenceRepo struct {
	db *sql.DB
}

func NewAdherenceRepo(db *sql.DB) *AdherenceRepo {
	return &AdherenceRepo{db: db}
}

// Upsert resuelve el choque de slot en el store. Requiere el índice único
//
//	CREATE UNIQUE INDEX adherence_logs_slot_uq ON adherence_logs
//	  (user_id, medication_id, scheduled_date, scheduled_time);
//
// Dos marcas concurrentes del mismo slot terminan en una sola fila: la
// perdedora aplica como UPDATE del status. RETURNING devuelve la fila
// ganadora (id y created_at originales).
func (r *AdherenceRepo) Upsert(ctx context.Context, l adherence.Log) (adherence.Log, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO adherence_logs (
			id, user_id, medication_id,
			scheduled_date, scheduled_time, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (user_id, medication_id, scheduled_date, scheduled_time)
		DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING
			id, user_id, medication_id,
			scheduled_date, scheduled_time, status,
			created_at, updated_at
	`,
		l.ID,
		l.UserID,
		l.MedicationID,
		dateParam(l.ScheduledDate),
		l.ScheduledTime,
		string(l.Status),
		l.CreatedAt,
		l.UpdatedAt,
	)

	return scanLog(row)
}

func (r *AdherenceRepo) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]adherence.Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id, medication_id,
			scheduled_date, scheduled_time, status,
			created_at, updated_at
		FROM adherence_logs
		WHERE user_id = $1
		  AND scheduled_date BETWEEN $2 AND $3
		ORDER BY scheduled_date ASC, scheduled_time ASC
	`, userID, dateParam(from), dateParam(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adherence.Log, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *AdherenceRepo) PurgeMedication(ctx context.Context, userID, medicationID string) error {
	// Sin RowsAffected-check: cero filas es un purge válido
	// (medicamento sin logs).
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM adherence_logs
		WHERE user_id = $1 AND medication_id = $2
	`, userID, medicationID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (adherence.Log, error) {
	var l adherence.Log
	var status string
	if err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.MedicationID,
		&l.ScheduledDate,
		&l.ScheduledTime,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return adherence.Log{}, ErrNotFound
		}
		return adherence.Log{}, err
	}
	l.Status = adherence.Status(status)
	return l, nil
}

// scheduled_date es DATE; lo pasamos como "YYYY-MM-DD" para no depender
// de la zona horaria con la que el driver serializa un time.Time.
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}
