package engine

import (
	"sync"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each frame phase (ms).
type FramePhaseTimings struct {
	BuildMs    float64 `json:"buildMs"`
	LayoutMs   float64 `json:"layoutMs"`
	SnapshotMs float64 `json:"snapshotMs"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	Rebuilt     int `json:"rebuilt"`
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Moved       int `json:"moved"`
	Disposed    int `json:"disposed"`
	Instances   int `json:"instances"`
	RenderNodes int `json:"renderNodes"`
}

// FrameFlags captures contextual flags for a frame.
type FrameFlags struct {
	LaidOut bool `json:"laidOut"`
	Failed  bool `json:"failed,omitempty"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	FrameID   uint64            `json:"frameId"`
	Timestamp int64             `json:"ts"`
	FrameMs   float64           `json:"frameMs"`
	Phases    FramePhaseTimings `json:"phases"`
	Counts    FrameCounts       `json:"counts"`
	Flags     FrameFlags        `json:"flags"`
}

// FrameTimeline is a chronological copy of the trace buffer.
type FrameTimeline struct {
	Samples []FrameSample `json:"samples"`
	// Total counts every traced frame, including those no longer held.
	Total       uint64  `json:"total"`
	SlowFrames  int     `json:"slowFrames"`
	ThresholdMs float64 `json:"thresholdMs"`
}

// FrameTraceBuffer keeps the most recent frame samples. Sample i of the
// stream lives in ring[i % capacity].
type FrameTraceBuffer struct {
	mu        sync.Mutex
	ring      []FrameSample
	written   uint64
	slow      int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a buffer holding capacity samples.
// Non-positive arguments select the defaults.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{ring: make([]FrameSample, capacity), threshold: threshold}
}

// Capacity returns the number of samples the buffer holds.
func (b *FrameTraceBuffer) Capacity() int {
	return len(b.ring)
}

// Add records a sample, replacing the oldest once the buffer is full.
// A frame longer than the threshold counts as slow.
func (b *FrameTraceBuffer) Add(sample FrameSample, frameDuration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring[b.written%uint64(len(b.ring))] = sample
	b.written++
	if frameDuration > b.threshold {
		b.slow++
	}
}

// Snapshot returns the held samples, oldest first.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.Lock()
	defer b.mu.Unlock()

	tl := FrameTimeline{
		Total:       b.written,
		SlowFrames:  b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
	size := uint64(len(b.ring))
	held := min(b.written, size)
	for i := b.written - held; i < b.written; i++ {
		tl.Samples = append(tl.Samples, b.ring[i%size])
	}
	return tl
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
