package patientmsg

import "errors"

// ErrorKind identifies which validation rule a message violated.
type ErrorKind int

const (
	KindMissingNameField ErrorKind = iota + 1
	KindInvalidNameFormat
	KindInvalidDateFormat
	KindMissingPrimaryCondition
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingNameField:
		return "missing-name-field"
	case KindInvalidNameFormat:
		return "invalid-name-format"
	case KindInvalidDateFormat:
		return "invalid-date-format"
	case KindMissingPrimaryCondition:
		return "missing-primary-condition"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; every ValidationError matches the one for its kind.
var (
	ErrMissingNameField        = errors.New("name field is missing in PRS segment")
	ErrInvalidNameFormat       = errors.New("invalid name format in PRS segment")
	ErrInvalidDateFormat       = errors.New("invalid date format in PRS segment")
	ErrMissingPrimaryCondition = errors.New("primary condition is missing in DET segment")
)

// ValidationError is returned for any data-shape or content violation found
// while parsing a message.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches the sentinel error for the kind.
func (e *ValidationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingNameField:
		return ErrMissingNameField
	case KindInvalidNameFormat:
		return ErrInvalidNameFormat
	case KindInvalidDateFormat:
		return ErrInvalidDateFormat
	case KindMissingPrimaryCondition:
		return ErrMissingPrimaryCondition
	default:
		return nil
	}
}

func newValidationError(kind ErrorKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Message: msg}
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
