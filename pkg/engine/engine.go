// Package engine drives frames for an arbor instance tree.
//
// An Engine owns one core.Tree and turns calls to Tick into frames: it runs
// posted callbacks and scheduled rebuilds, mounts a newly set root, lays the
// render tree out against the surface size and hands the resulting geometry
// to the paint backend. The engine never schedules itself; the frame driver
// decides when to tick, optionally waiting for Options.OnNeedsFrame.
package engine

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/errors"
	"github.com/go-drift/arbor/pkg/graphics"
	"github.com/go-drift/arbor/pkg/layout"
)

// Options configures an Engine.
type Options struct {
	// Logger receives frame summaries at debug level. The zero value
	// discards output.
	Logger zerolog.Logger
	// Handler receives every error a tick produces. Defaults to a
	// LogHandler writing to Logger.
	Handler errors.ErrorHandler
	// OnFrameReady is called with each frame whose layout succeeded.
	OnFrameReady func(*Frame)
	// OnNeedsFrame is called when work is queued for the next tick.
	// It may be called from any goroutine that posts work.
	OnNeedsFrame func()
	// TraceCapacity is the number of frame samples kept for Trace.
	TraceCapacity int
	// SlowFrameThreshold marks traced frames as slow. Defaults to 16.667ms.
	SlowFrameThreshold time.Duration
}

// Engine is the frame driver entry point. It is an explicit context object:
// several engines, each with its own tree, may run in one process.
//
// Tick, HitTest and LastFrame serialize on an internal lock. SetRoot and Post
// may be called from any goroutine, including from posted callbacks.
type Engine struct {
	mu   sync.Mutex
	tree *core.Tree

	logger       zerolog.Logger
	handler      errors.ErrorHandler
	onFrameReady func(*Frame)
	onNeedsFrame func()

	rootMu      sync.Mutex
	pendingRoot *core.Node
	rootSet     bool

	frames      uint64
	constraints layout.Constraints
	laidOut     layout.RenderNode
	lastFrame   *Frame
	trace       *FrameTraceBuffer
}

// New creates an engine for the kinds in registry.
func New(registry *core.Registry, opts Options) *Engine {
	handler := opts.Handler
	if handler == nil {
		handler = errors.NewLogHandler(opts.Logger, false)
	}
	e := &Engine{
		tree:         core.NewTree(registry, &layout.PipelineOwner{}),
		logger:       opts.Logger.With().Str("component", "engine").Logger(),
		handler:      handler,
		onFrameReady: opts.OnFrameReady,
		onNeedsFrame: opts.OnNeedsFrame,
		trace:        NewFrameTraceBuffer(opts.TraceCapacity, opts.SlowFrameThreshold),
	}
	e.tree.Owner().OnNeedsFrame = e.notifyNeedsFrame
	return e
}

// Tree returns the instance tree the engine drives. Mutating it outside a
// tick or a posted callback races with Tick.
func (e *Engine) Tree() *core.Tree {
	return e.tree
}

// SetRoot replaces the root configuration. The new tree is reconciled against
// the current one on the next tick; a nil root unmounts everything.
func (e *Engine) SetRoot(root *core.Node) {
	e.rootMu.Lock()
	e.pendingRoot = root
	e.rootSet = true
	e.rootMu.Unlock()
	e.notifyNeedsFrame()
}

// Post queues fn to run on the tick goroutine at the start of the next tick.
func (e *Engine) Post(fn func()) {
	e.tree.Owner().Post(fn)
}

// NeedsFrame reports whether a tick would do any work.
//
// When a tick is in progress the lock is not awaited and NeedsFrame reports
// true; at worst the driver runs one extra empty tick.
func (e *Engine) NeedsFrame() bool {
	if !e.mu.TryLock() {
		return true
	}
	defer e.mu.Unlock()

	e.rootMu.Lock()
	rootSet := e.rootSet
	e.rootMu.Unlock()
	if rootSet {
		return true
	}
	return e.tree.Owner().NeedsWork()
}

// LastFrame returns the most recent frame produced by Tick, or nil.
func (e *Engine) LastFrame() *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastFrame
}

// Trace returns the recorded frame samples, oldest first.
func (e *Engine) Trace() FrameTimeline {
	return e.trace.Snapshot()
}

// Tick runs one frame against a surface of the given size.
//
// Phases run in order: posted callbacks and scheduled rebuilds, the pending
// root (if SetRoot was called), then layout. Layout runs only when something
// was rebuilt or mutated, a render node scheduled itself, the surface
// constraints changed, or the render root is new; a subtree whose layout failed keeps
// its last-known-good geometry and is attempted again on the next such
// trigger.
//
// Tick returns a frame when a render tree exists and is fully laid out. All
// errors of the tick are joined, reported to the handler and returned; build
// errors do not prevent a frame.
func (e *Engine) Tick(size graphics.Size) (*Frame, error) {
	return e.TickConstraints(layout.Tight(size))
}

// TickConstraints is Tick for a surface that does not dictate an exact size,
// such as a measuring pass with an unbounded height. The frame's Size is the
// size the root chose.
func (e *Engine) TickConstraints(constraints layout.Constraints) (*Frame, error) {
	frame, err := e.step(constraints)
	if frame != nil && e.onFrameReady != nil {
		e.onFrameReady(frame)
	}
	return frame, err
}

func (e *Engine) step(constraints layout.Constraints) (frame *Frame, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			perr := &errors.PanicError{
				Op:         "engine.Tick",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.Report(e.handler, perr)
			frame, err = nil, stderrors.Join(err, perr)
		}
	}()

	if verr := constraints.Validate(); verr != nil {
		errors.Report(e.handler, verr)
		return nil, verr
	}

	start := time.Now()
	sample := FrameSample{Timestamp: start.UnixMilli()}
	var errs []error

	changes, buildErr := e.tree.Owner().FlushBuild()
	errs = appendErr(errs, buildErr)
	if root, ok := e.takeRoot(); ok {
		mounted, mountErr := e.tree.Mount(root)
		errs = appendErr(errs, mountErr)
		changes = merge(changes, mounted)
	}
	if changes == nil {
		changes = &core.Changes{}
	}
	sample.Phases.BuildMs = durationToMillis(time.Since(start))

	pipeline := e.tree.Pipeline()
	renderRoot := e.tree.RenderRoot()
	if !changes.Empty() {
		pipeline.RequestLayout()
	}

	layoutStart := time.Now()
	var layoutErr error
	if renderRoot != nil && (pipeline.NeedsLayout() || renderRoot != e.laidOut || constraints != e.constraints) {
		layoutErr = pipeline.FlushLayoutForRoot(renderRoot, constraints)
		sample.Flags.LaidOut = true
	}
	e.laidOut = renderRoot
	e.constraints = constraints
	errs = appendErr(errs, layoutErr)
	layoutDuration := time.Since(layoutStart)
	sample.Phases.LayoutMs = durationToMillis(layoutDuration)

	if renderRoot != nil && layoutErr == nil && !renderRoot.NeedsLayout() {
		snapshotStart := time.Now()
		e.frames++
		frame = snapshotFrame(e.frames, renderRoot)
		e.lastFrame = frame
		sample.Phases.SnapshotMs = durationToMillis(time.Since(snapshotStart))
		sample.Counts.RenderNodes = len(frame.Nodes)
	}

	err = stderrors.Join(errs...)
	errors.Report(e.handler, err)

	sample.FrameID = e.frames
	sample.Counts.Rebuilt = changes.Rebuilt
	sample.Counts.Created = changes.Count(core.OpCreate)
	sample.Counts.Updated = changes.Count(core.OpUpdate)
	sample.Counts.Moved = changes.Count(core.OpMove)
	sample.Counts.Disposed = changes.Count(core.OpDispose)
	sample.Counts.Instances = e.tree.Len()
	sample.Flags.Failed = err != nil
	frameDuration := time.Since(start)
	sample.FrameMs = durationToMillis(frameDuration)
	e.trace.Add(sample, frameDuration)

	e.logger.Debug().
		Uint64("frame", e.frames).
		Int("built", sample.Counts.Rebuilt).
		Int("created", sample.Counts.Created).
		Int("disposed", sample.Counts.Disposed).
		Float64("layout_ms", sample.Phases.LayoutMs).
		Bool("laid_out", sample.Flags.LaidOut).
		Bool("failed", sample.Flags.Failed).
		Msg("frame")

	return frame, err
}

// HitTest returns the render path under point in the current render tree,
// deepest node first.
func (e *Engine) HitTest(point graphics.Offset) []layout.RenderNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return HitTest(e.tree.RenderRoot(), point)
}

func (e *Engine) takeRoot() (*core.Node, bool) {
	e.rootMu.Lock()
	defer e.rootMu.Unlock()
	if !e.rootSet {
		return nil, false
	}
	root := e.pendingRoot
	e.pendingRoot = nil
	e.rootSet = false
	return root, true
}

func (e *Engine) notifyNeedsFrame() {
	if e.onNeedsFrame != nil {
		e.onNeedsFrame()
	}
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}

// merge appends the mutations of b to a. Either may be nil.
func merge(a, b *core.Changes) *core.Changes {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	a.Mutations = append(a.Mutations, b.Mutations...)
	a.Disposed = append(a.Disposed, b.Disposed...)
	a.Rebuilt += b.Rebuilt
	return a
}
