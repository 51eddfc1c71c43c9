package patientmsg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SaveOutcome describes a stored record.
type SaveOutcome struct {
	ID      uuid.UUID `json:"id"`
	SavedAt time.Time `json:"savedAt"`
}

// RecordSaver persists parsed records. The parser never depends on it.
type RecordSaver interface {
	Save(ctx context.Context, rec *PatientRecord) (*SaveOutcome, error)
}

// RecordRepository is a RecordSaver that can read records back.
type RecordRepository interface {
	RecordSaver
	GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error)
}

type logSaver struct {
	logger zerolog.Logger
}

// NewLogSaver returns a RecordSaver that only logs the record. It is used
// when no database is configured.
func NewLogSaver(logger zerolog.Logger) RecordSaver {
	return &logSaver{logger: logger}
}

func (s *logSaver) Save(ctx context.Context, rec *PatientRecord) (*SaveOutcome, error) {
	out := &SaveOutcome{ID: uuid.New(), SavedAt: time.Now().UTC()}
	s.logger.Info().
		Str("record_id", out.ID.String()).
		Str("last_name", rec.FullName.LastName).
		Str("date_of_birth", rec.DateOfBirth).
		Msg("mock database save")
	return out, nil
}
