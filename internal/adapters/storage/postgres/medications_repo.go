package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"med-adherence-tracker/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	schedule, err := json.Marshal(m.Schedule)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, owner_user_id,
			name, dosage, schedule, notes, reminders,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.Dosage,
		schedule,
		m.Notes,
		m.Reminders,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	schedule, err := json.Marshal(m.Schedule)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			schedule = $4,
			notes = $5,
			reminders = $6,
			updated_at = $7
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		schedule,
		m.Notes,
		m.Reminders,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, dosage, schedule, notes, reminders,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	var m medications.Medication
	var schedule []byte
	if err := row.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.Dosage,
		&schedule,
		&m.Notes,
		&m.Reminders,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}

	if err := json.Unmarshal(schedule, &m.Schedule); err != nil {
		return medications.Medication{}, err
	}

	return m, nil
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, dosage, schedule, notes, reminders,
			created_at, updated_at
		FROM medications
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		var m medications.Medication
		var schedule []byte
		if err := rows.Scan(
			&m.ID,
			&m.OwnerUserID,
			&m.Name,
			&m.Dosage,
			&schedule,
			&m.Notes,
			&m.Reminders,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(schedule, &m.Schedule); err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
