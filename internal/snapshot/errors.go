package snapshot

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a snapshot id that does not exist in the store. It
// carries the available ids so the CLI can list them in its message.
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("snapshot %q not found (store is empty)", e.ID)
	}
	return fmt.Sprintf("snapshot %q not found (available: %s)", e.ID, strings.Join(e.Available, ", "))
}

// WriteConflictError reports a save colliding with an existing snapshot id.
// Ids resolve to the second, so two saves within one second conflict; the
// caller should retry.
type WriteConflictError struct {
	ID string
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("snapshot %q already exists; retry for a fresh id", e.ID)
}

// IsNotFound reports whether err is a NotFoundError, unwrapping as needed.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsWriteConflict reports whether err is a WriteConflictError.
func IsWriteConflict(err error) bool {
	var wc *WriteConflictError
	return errors.As(err, &wc)
}
