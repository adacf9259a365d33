// Package errors provides structured error handling for the arbor core.
//
// Every failure the core surfaces belongs to one of three categories, each
// with its own type: structural errors in a configuration tree, layout
// constraint violations, and faults raised by application state hooks.
// Callers inspect them with the standard errors.As and errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindStructural indicates a malformed configuration tree.
	KindStructural
	// KindLayout indicates a layout constraint violation.
	KindLayout
	// KindStateFault indicates a failing state hook.
	KindStateFault
	// KindPanic indicates a recovered panic outside a state hook.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindLayout:
		return "layout"
	case KindStateFault:
		return "state"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel causes wrapped by the typed errors below.
var (
	ErrDuplicateKey       = stderrors.New("duplicate key among siblings")
	ErrNonComparableKey   = stderrors.New("key is not comparable")
	ErrCycle              = stderrors.New("cyclic configuration")
	ErrUnknownKind        = stderrors.New("unknown kind")
	ErrUnbounded          = stderrors.New("unbounded constraints on an axis that requires a finite size")
	ErrSizeOutOfRange     = stderrors.New("size outside constraints")
	ErrConstraintsWidened = stderrors.New("child constraints wider than parent constraints")
	ErrInvalidConstraints = stderrors.New("invalid constraints")
)

// StructuralError reports a configuration tree that cannot be reconciled.
// The instance subtree it was aimed at is left unchanged.
type StructuralError struct {
	// Op is the operation that detected the error (e.g., "core.Mount").
	Op string
	// Path locates the offending node, e.g. "column/row[2]".
	Path string
	// Key is the offending key, if any.
	Key any
	// Err is one of the sentinel causes.
	Err error
}

func (e *StructuralError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("%s: %v at %s (key %v)", e.Op, e.Err, e.Path, e.Key)
	}
	return fmt.Sprintf("%s: %v at %s", e.Op, e.Err, e.Path)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// Kind returns KindStructural.
func (e *StructuralError) Kind() ErrorKind {
	return KindStructural
}

// LayoutError reports a render node that could not satisfy its constraints.
// Geometry of the affected subtree stays at its last-known-good values.
type LayoutError struct {
	// Node describes the offending render node.
	Node string
	// Constraints is the textual form of the constraints the node received.
	Constraints string
	// Size is the textual form of the size the node chose, if any.
	Size string
	// Detail adds policy-specific context (e.g., "vertical main axis").
	Detail string
	// Err is one of the sentinel causes.
	Err error
}

func (e *LayoutError) Error() string {
	msg := fmt.Sprintf("layout %s: %v", e.Node, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Constraints != "" {
		msg += " constraints=" + e.Constraints
	}
	if e.Size != "" {
		msg += " size=" + e.Size
	}
	return msg
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// Kind returns KindLayout.
func (e *LayoutError) Kind() ErrorKind {
	return KindLayout
}

// StateFaultError represents a failure inside a state hook.
// The faulting node is disposed rather than left half-updated.
type StateFaultError struct {
	// Node describes the instance whose hook failed.
	Node string
	// Phase names the hook: "init", "update", "build" or "dispose".
	Phase string
	// Recovered is the panic value (nil for returned errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of a panic.
	StackTrace string
	// Timestamp is when the fault occurred.
	Timestamp time.Time
}

func (e *StateFaultError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s during %s: %v", e.Node, e.Phase, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s during %s: %v", e.Node, e.Phase, e.Err)
	}
	return fmt.Sprintf("unknown fault in %s during %s", e.Node, e.Phase)
}

func (e *StateFaultError) Unwrap() error {
	return e.Err
}

// Kind returns KindStateFault.
func (e *StateFaultError) Kind() ErrorKind {
	return KindStateFault
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.Tick").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Kind returns KindPanic.
func (e *PanicError) Kind() ErrorKind {
	return KindPanic
}

// KindOf returns the category of err, looking through wrapping and joins.
func KindOf(err error) ErrorKind {
	var kinded interface{ Kind() ErrorKind }
	if stderrors.As(err, &kinded) {
		return kinded.Kind()
	}
	return KindUnknown
}

// ErrorHandler receives errors reported by the core.
type ErrorHandler interface {
	// HandleStructuralError is called when a configuration tree is rejected.
	HandleStructuralError(err *StructuralError)
	// HandleLayoutError is called when a layout pass fails.
	HandleLayoutError(err *LayoutError)
	// HandleStateFault is called when a state hook fails.
	HandleStateFault(err *StateFaultError)
	// HandlePanic is called when a panic is recovered outside a state hook.
	HandlePanic(err *PanicError)
}
