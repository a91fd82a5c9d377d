package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"github.com/lib/pq"
)

// Custom errors for better error handling
var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrIDAlreadySet        = errors.New("asset already has an id")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrConnectivity        = errors.New("store connectivity lost")
	ErrInvalidData         = errors.New("value rejected by the store")
	ErrCancelled           = errors.New("operation cancelled by the caller")
)

// PersistenceKind classifies a store failure.
type PersistenceKind string

const (
	KindConstraintViolation PersistenceKind = "constraint-violation"
	KindConnectivity        PersistenceKind = "connectivity"
	KindInvalidData         PersistenceKind = "invalid-data"
	KindCancelled           PersistenceKind = "cancelled"
	KindQuery               PersistenceKind = "query"
)

// PersistenceError wraps a failure reported by the store.
type PersistenceError struct {
	Op   string
	Kind PersistenceKind
	Err  error
}

func (e *PersistenceError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets callers match on the sentinel of each kind.
func (e *PersistenceError) Is(target error) bool {
	switch target {
	case ErrConstraintViolation:
		return e.Kind == KindConstraintViolation
	case ErrConnectivity:
		return e.Kind == KindConnectivity
	case ErrInvalidData:
		return e.Kind == KindInvalidData
	case ErrCancelled:
		return e.Kind == KindCancelled
	}
	return false
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Kind: classify(err), Err: err}
}

// classify maps a driver error onto a PersistenceKind using the PostgreSQL
// SQLSTATE class when available.
func classify(err error) PersistenceKind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "23":
			return KindConstraintViolation
		case pqErr.Code.Class() == "22":
			// data exception: value too long, numeric overflow, bad format
			return KindInvalidData
		case pqErr.Code.Class() == "08":
			return KindConnectivity
		case pqErr.Code == "57P01", pqErr.Code == "57P02", pqErr.Code == "57P03":
			// server shutting down or not accepting connections
			return KindConnectivity
		}
		return KindQuery
	}

	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return KindConnectivity
	}
	return KindQuery
}
