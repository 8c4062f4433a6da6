package models

import (
	"errors"
	"fmt"
)

// DataError marks a record that cannot be processed: a required field is
// missing or the citation text yields no authors. Fatal for that record only,
// the pipeline continues with its siblings.
type DataError struct {
	Field string
	Msg   string
}

func (e *DataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("data error: field %q: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("data error: %s", e.Msg)
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// TransientError wraps a failed network or storage operation. Surfaced to the
// caller of the step as-is; nothing retries it.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
