// Package location acquires device position readings and classifies
// acquisition failures.
package location

import (
	"context"
	"errors"

	"github.com/motoguard/motoguard/internal/model"
)

// Acquisition failure taxonomy. Callers branch on these with errors.Is;
// everything else is an unclassified provider error.
var (
	ErrPermissionDenied = errors.New("location: permission denied")
	ErrUnavailable      = errors.New("location: position unavailable")
	ErrTimeout          = errors.New("location: acquisition timed out")
	ErrUnsupported      = errors.New("location: not supported on this device")
)

// Failure is the wire-level classification of a location error.
type Failure string

const (
	FailurePermissionDenied Failure = "permission_denied"
	FailureUnavailable      Failure = "unavailable"
	FailureTimeout          Failure = "timeout"
	FailureUnsupported      Failure = "unsupported"
	FailureUnknown          Failure = "unknown"
)

// FailureOf maps a provider error onto the taxonomy.
func FailureOf(err error) Failure {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return FailurePermissionDenied
	case errors.Is(err, ErrUnavailable):
		return FailureUnavailable
	case errors.Is(err, ErrTimeout):
		return FailureTimeout
	case errors.Is(err, ErrUnsupported):
		return FailureUnsupported
	default:
		return FailureUnknown
	}
}

// Provider yields position readings. Current is one-shot; Watch is a
// continuous subscription whose channel closes when ctx is cancelled.
type Provider interface {
	Current(ctx context.Context) (*model.LocationData, error)
	Watch(ctx context.Context) (<-chan model.LocationData, error)
}
