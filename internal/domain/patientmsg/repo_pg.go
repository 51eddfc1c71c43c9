package patientmsg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type recordRepoPG struct {
	db querier
}

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository {
	return &recordRepoPG{db: pool}
}

func (r *recordRepoPG) Save(ctx context.Context, rec *PatientRecord) (*SaveOutcome, error) {
	out := &SaveOutcome{ID: uuid.New(), SavedAt: time.Now().UTC()}

	_, err := r.db.Exec(ctx, `
		INSERT INTO parsed_patient_record (
			id, last_name, first_name, middle_name, date_of_birth, primary_condition, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.ID, rec.FullName.LastName, rec.FullName.FirstName, rec.FullName.MiddleName,
		nullIfEmpty(rec.DateOfBirth), rec.PrimaryCondition, out.SavedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save patient record: %w", err)
	}
	return out, nil
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	rec := &PatientRecord{}
	var dob *string
	err := r.db.QueryRow(ctx, `
		SELECT last_name, first_name, middle_name, to_char(date_of_birth, 'YYYY-MM-DD'), primary_condition
		FROM parsed_patient_record WHERE id = $1`, id,
	).Scan(&rec.FullName.LastName, &rec.FullName.FirstName, &rec.FullName.MiddleName, &dob, &rec.PrimaryCondition)
	if err != nil {
		return nil, fmt.Errorf("get patient record %s: %w", id, err)
	}
	if dob != nil {
		rec.DateOfBirth = *dob
	}
	return rec, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
