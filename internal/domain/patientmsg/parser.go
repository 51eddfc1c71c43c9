package patientmsg

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/patientmsg/internal/platform/hl7v2"
)

// Segment tags understood by the parser.
const (
	TagPatient = "PRS"
	TagDetail  = "DET"
	TagHeader  = "MSG"
	TagEvent   = "EVT"
)

// conditionField is the DET field position holding the primary condition.
const conditionField = 4

// Parser extracts a PatientRecord from a single message. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a parser that reports skipped segments to logger.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger.With().Str("component", "parser").Logger()}
}

// Parse parses one message. PRS and DET segments may appear in any order;
// when a tag repeats, the later segment wins. A missing PRS or DET segment
// leaves the corresponding fields empty. Any rule violation inside a PRS or
// DET segment is returned as a *ValidationError.
func (p *Parser) Parse(message string) (*PatientRecord, error) {
	rec := &PatientRecord{}

	for i, segment := range hl7v2.SplitSegments(message) {
		if segment == "" {
			continue
		}
		fields := hl7v2.SplitFields(segment)

		switch tag := fields[0]; tag {
		case TagPatient:
			name, dob, err := interpretPatient(fields)
			if err != nil {
				return nil, err
			}
			rec.FullName = name
			rec.DateOfBirth = dob
		case TagDetail:
			condition, err := interpretDetail(fields)
			if err != nil {
				return nil, err
			}
			rec.PrimaryCondition = condition
		case TagHeader, TagEvent:
			p.logger.Debug().Str("tag", tag).Int("segment", i).Msg("segment not consumed")
		default:
			p.logger.Warn().Str("tag", tag).Int("segment", i).Msg("unsupported segment skipped")
		}
	}

	return rec, nil
}

// interpretPatient extracts the name and date of birth from a PRS segment.
func interpretPatient(fields []string) (FullName, string, error) {
	nameField := hl7v2.FindNameField(fields, 1)
	if nameField == "" {
		return FullName{}, "", newValidationError(KindMissingNameField, "Name field is missing in PRS segment")
	}

	comps := hl7v2.SplitComponents(nameField)
	name := FullName{
		LastName:  hl7v2.ComponentAt(comps, 0),
		FirstName: hl7v2.ComponentAt(comps, 1),
	}
	if name.LastName == "" || name.FirstName == "" {
		return FullName{}, "", newValidationError(KindInvalidNameFormat,
			fmt.Sprintf("Invalid name format in PRS segment: %q needs last and first name", nameField))
	}
	if middle := hl7v2.ComponentAt(comps, 2); middle != "" {
		name.MiddleName = &middle
	}

	dobField := hl7v2.FindDateField(fields, 1)
	if dobField == "" {
		return FullName{}, "", newValidationError(KindInvalidDateFormat,
			"Invalid date format in PRS segment: no YYYYMMDD field found")
	}
	dob, err := hl7v2.FormatDate(dobField)
	if err != nil {
		return FullName{}, "", newValidationError(KindInvalidDateFormat,
			fmt.Sprintf("Invalid date format in PRS segment: %q is not a calendar date", dobField))
	}

	return name, dob, nil
}

// interpretDetail reads the primary condition from its fixed DET position.
func interpretDetail(fields []string) (string, error) {
	if len(fields) <= conditionField {
		return "", newValidationError(KindMissingPrimaryCondition,
			fmt.Sprintf("Primary condition is missing in DET segment: expected field %d, segment has %d", conditionField, len(fields)-1))
	}
	condition := hl7v2.FieldAt(fields, conditionField)
	if condition == "" {
		return "", newValidationError(KindMissingPrimaryCondition, "Primary condition is missing in DET segment")
	}
	return condition, nil
}
