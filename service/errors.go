package service

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned by Upsert when the storage backend could not be
// initialized at startup.
var ErrUnavailable = errors.New("storage backend unavailable")

// InvalidArgumentError reports a request that does not satisfy the record
// invariants.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsInvalidArgument reports whether err is an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}
