package ledger

import (
	"errors"
	"fmt"
)

// Validation failures. Each is recoverable: the caller fixes the draft and
// commits again.
var (
	ErrEmptyDescription         = errors.New("description must not be blank")
	ErrNonPositiveAmount        = errors.New("amount must be a number greater than zero")
	ErrUnknownPayer             = errors.New("payer is not a participant")
	ErrUnknownSharedParticipant = errors.New("shared participant is not a participant")
	ErrInvalidAttachment        = errors.New("attachment must have a name and a non-negative size")
)

// ValidationError reports which field of a draft failed validation.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Kind returns the stable name of the failed rule, e.g. "empty_description".
func (e *ValidationError) Kind() string {
	return Kind(e.Err)
}

// Kind maps a validation failure to its stable name. It returns "" for
// errors that are not validation failures.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyDescription):
		return "empty_description"
	case errors.Is(err, ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, ErrUnknownPayer):
		return "unknown_payer"
	case errors.Is(err, ErrUnknownSharedParticipant):
		return "unknown_shared_participant"
	case errors.Is(err, ErrInvalidAttachment):
		return "invalid_attachment"
	default:
		return ""
	}
}

// IsValidation reports whether err is a draft validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
