package store

import (
	"errors"
	"fmt"
)

// ErrPersistence matches every PersistenceError through errors.Is.
var ErrPersistence = errors.New("persistence error")

var (
	// ErrNoOrders is returned when no orders exist for a date.
	ErrNoOrders = errors.New("no orders exist for date")
	// ErrOrderNotFound is returned when a date has orders but not the requested one.
	ErrOrderNotFound = errors.New("order not found")
)

// opAudit marks failures writing the audit log.
const opAudit = "audit"

// PersistenceError reports unreadable, unwritable or malformed backing files.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsAuditFailure reports whether err came from writing the audit log rather
// than from an order or catalog file.
func IsAuditFailure(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Op == opAudit
}

func persistenceErr(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}
