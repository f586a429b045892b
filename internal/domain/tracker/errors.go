package tracker

import (
	"errors"
	"fmt"
)

// InvalidError reports a broken entity invariant.
type InvalidError struct {
	Entity string
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s.%s: %s", e.Entity, e.Field, e.Reason)
}

func invalid(entity, field, reason string) error {
	return &InvalidError{Entity: entity, Field: field, Reason: reason}
}

func IsInvalid(err error) bool {
	var ie *InvalidError
	return errors.As(err, &ie)
}
