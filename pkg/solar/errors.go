package solar

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures.
type Kind int

const (
	// InvalidInputGeometry aborts a whole analysis call.
	InvalidInputGeometry Kind = iota + 1
	// DegenerateProjection is reported per cell.
	DegenerateProjection
	// DegenerateBoolean is resolved internally and never returned by the
	// region algebra; kernels may still report it.
	DegenerateBoolean
	// ReconciliationFailure marks a mesh split whose island count could not
	// be matched.
	ReconciliationFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidInputGeometry:
		return "invalid input geometry"
	case DegenerateProjection:
		return "degenerate projection"
	case DegenerateBoolean:
		return "degenerate boolean"
	case ReconciliationFailure:
		return "reconciliation failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is an engine failure of a given kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidInputGeometry  = &Error{Kind: InvalidInputGeometry}
	ErrDegenerateProjection  = &Error{Kind: DegenerateProjection}
	ErrDegenerateBoolean     = &Error{Kind: DegenerateBoolean}
	ErrReconciliationFailure = &Error{Kind: ReconciliationFailure}
)

func (e *Error) Error() string {
	msg := "solar: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Invalid builds an InvalidInputGeometry error.
func Invalid(op, format string, args ...any) error {
	return &Error{Kind: InvalidInputGeometry, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
