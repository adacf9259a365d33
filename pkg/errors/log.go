package errors

import (
	"github.com/rs/zerolog"
)

// LogHandler is an ErrorHandler that writes structured log events.
type LogHandler struct {
	// Logger receives the events. The zero value discards output.
	Logger zerolog.Logger
	// Verbose enables stack traces on faults and panics.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger zerolog.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

// HandleStructuralError logs a rejected configuration tree.
func (h *LogHandler) HandleStructuralError(err *StructuralError) {
	if err == nil {
		return
	}
	ev := h.Logger.Error().
		Str("kind", KindStructural.String()).
		Str("op", err.Op).
		Str("path", err.Path)
	if err.Key != nil {
		ev = ev.Interface("key", err.Key)
	}
	ev.Err(err.Err).Msg("configuration rejected")
}

// HandleLayoutError logs a layout constraint violation.
func (h *LogHandler) HandleLayoutError(err *LayoutError) {
	if err == nil {
		return
	}
	h.Logger.Error().
		Str("kind", KindLayout.String()).
		Str("node", err.Node).
		Str("constraints", err.Constraints).
		Str("size", err.Size).
		Str("detail", err.Detail).
		Err(err.Err).
		Msg("layout constraint violation")
}

// HandleStateFault logs a failing state hook.
func (h *LogHandler) HandleStateFault(err *StateFaultError) {
	if err == nil {
		return
	}
	ev := h.Logger.Error().
		Str("kind", KindStateFault.String()).
		Str("node", err.Node).
		Str("phase", err.Phase)
	if err.Recovered != nil {
		ev = ev.Interface("recovered", err.Recovered)
	}
	if err.Err != nil {
		ev = ev.Err(err.Err)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("state hook failed; node disposed")
}

// HandlePanic logs a recovered panic.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.Logger.Error().
		Str("kind", KindPanic.String()).
		Str("op", err.Op).
		Interface("value", err.Value)
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("recovered panic")
}
