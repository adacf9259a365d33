package errors

import (
	stderrors "errors"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Report routes every error contained in err (including joined errors) to
// the matching method of h. Errors of unknown type are ignored.
func Report(h ErrorHandler, err error) {
	if h == nil || err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			Report(h, inner)
		}
		return
	}

	var structural *StructuralError
	var layoutErr *LayoutError
	var fault *StateFaultError
	var panicErr *PanicError
	switch {
	case stderrors.As(err, &structural):
		h.HandleStructuralError(structural)
	case stderrors.As(err, &layoutErr):
		h.HandleLayoutError(layoutErr)
	case stderrors.As(err, &fault):
		if fault.Timestamp.IsZero() {
			fault.Timestamp = time.Now()
		}
		h.HandleStateFault(fault)
	case stderrors.As(err, &panicErr):
		if panicErr.Timestamp.IsZero() {
			panicErr.Timestamp = time.Now()
		}
		h.HandlePanic(panicErr)
	}
}

// RecoverInto is a helper for deferred panic recovery that stores the panic
// as a *PanicError in dst.
// Usage: defer errors.RecoverInto("engine.Tick", &err)
func RecoverInto(op string, dst *error) {
	if r := recover(); r != nil {
		*dst = stderrors.Join(*dst, &PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}

// Collector is an ErrorHandler that records everything it receives.
// Useful for tests and for callers that want to inspect a tick's faults.
type Collector struct {
	Structural []*StructuralError
	Layout     []*LayoutError
	Faults     []*StateFaultError
	Panics     []*PanicError
}

func (c *Collector) HandleStructuralError(err *StructuralError) {
	c.Structural = append(c.Structural, err)
}

func (c *Collector) HandleLayoutError(err *LayoutError) {
	c.Layout = append(c.Layout, err)
}

func (c *Collector) HandleStateFault(err *StateFaultError) {
	c.Faults = append(c.Faults, err)
}

func (c *Collector) HandlePanic(err *PanicError) {
	c.Panics = append(c.Panics, err)
}

// Len returns the total number of collected errors.
func (c *Collector) Len() int {
	return len(c.Structural) + len(c.Layout) + len(c.Faults) + len(c.Panics)
}
