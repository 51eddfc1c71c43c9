package patientmsg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehr/patientmsg/internal/platform/hl7v2"
)

// Service parses messages and hands the resulting records to a saver.
type Service struct {
	parser *Parser
	saver  RecordSaver
	logger zerolog.Logger
}

func NewService(parser *Parser, saver RecordSaver, logger zerolog.Logger) *Service {
	return &Service{parser: parser, saver: saver, logger: logger}
}

// Parse parses a single message without saving it.
func (s *Service) Parse(message string) (*PatientRecord, error) {
	return s.parser.Parse(message)
}

// ParseAndSave parses a single message and saves the record. Validation
// errors are returned unchanged; save failures are wrapped.
func (s *Service) ParseAndSave(ctx context.Context, message string) (*PatientRecord, *SaveOutcome, error) {
	rec, err := s.parser.Parse(message)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.saver.Save(ctx, rec)
	if err != nil {
		return nil, nil, fmt.Errorf("save record: %w", err)
	}
	return rec, out, nil
}

// BatchResult is the outcome for one message of a batch.
type BatchResult struct {
	Index  int            `json:"index"`
	Record *PatientRecord `json:"record,omitempty"`
	Error  string         `json:"error,omitempty"`
	Kind   string         `json:"kind,omitempty"`
}

// ParseBatch splits raw on blank lines and parses and saves each message.
// A failing message does not stop the batch. The returned error is non-nil
// only for failures other than validation (e.g. the saver).
func (s *Service) ParseBatch(ctx context.Context, raw string) ([]BatchResult, error) {
	messages := hl7v2.SplitMessages(raw)
	results := make([]BatchResult, 0, len(messages))

	for i, msg := range messages {
		rec, _, err := s.ParseAndSave(ctx, msg)
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			s.logger.Warn().Int("index", i).Str("kind", ve.Kind.String()).Msg(ve.Message)
			results = append(results, BatchResult{Index: i, Error: ve.Message, Kind: ve.Kind.String()})
			continue
		}
		results = append(results, BatchResult{Index: i, Record: rec})
	}

	return results, nil
}

// Acknowledgement codes written back to MLLP peers.
const (
	AckAccept = "AA"
	AckError  = "AE"
)

// HandleMLLP parses and saves one MLLP payload and returns an
// acknowledgement segment: "ACK|AA|<record id>" or "ACK|AE|<error>".
func (s *Service) HandleMLLP(payload []byte) []byte {
	_, out, err := s.ParseAndSave(context.Background(), string(payload))
	if err != nil {
		s.logger.Warn().Err(err).Msg("mllp message rejected")
		reason := strings.ReplaceAll(err.Error(), hl7v2.FieldSeparator, " ")
		return []byte("ACK" + hl7v2.FieldSeparator + AckError + hl7v2.FieldSeparator + reason)
	}
	return []byte("ACK" + hl7v2.FieldSeparator + AckAccept + hl7v2.FieldSeparator + out.ID.String())
}
