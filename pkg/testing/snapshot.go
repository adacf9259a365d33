package testing

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/layout"
)

// UpdateEnv names the environment variable that makes MatchesFile rewrite
// golden files instead of comparing against them.
const UpdateEnv = "ARBOR_UPDATE_SNAPSHOTS"

// TestingT is what MatchesFile needs from *testing.T.
type TestingT interface {
	Helper()
	Name() string
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// Snapshot captures the laid-out render tree and the instance tree.
type Snapshot struct {
	RenderTree *RenderNode    `json:"renderTree"`
	Tree       *core.DumpNode `json:"tree,omitempty"`
}

// RenderNode is one node of the serialized render tree. Offsets are
// relative to the parent.
type RenderNode struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Size     [2]float64    `json:"size"`
	Offset   [2]float64    `json:"offset"`
	Children []*RenderNode `json:"children,omitempty"`
}

// CaptureSnapshot captures the current render and instance trees.
func (t *Tester) CaptureSnapshot() *Snapshot {
	tree := t.engine.Tree()
	snap := &Snapshot{Tree: tree.Dump()}
	if root := tree.RenderRoot(); root != nil {
		snap.RenderTree = captureRenderNode(root)
	}
	return snap
}

// MatchesFile fails t when the snapshot differs from the golden file at
// path. With ARBOR_UPDATE_SNAPSHOTS=1 the golden file is rewritten.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()
	hint := fmt.Sprintf("%s=1 go test -run %s", UpdateEnv, t.Name())

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("writing snapshot %s: %v", path, err)
		}
		return
	}

	golden, err := readSnapshot(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		t.Fatalf("snapshot file missing: %s\ncreate it with: %s", path, hint)
		return
	case err != nil:
		t.Fatalf("reading snapshot %s: %v", path, err)
		return
	}
	if diff := s.Diff(golden); diff != "" {
		t.Errorf("snapshot mismatch: %s (-golden +got)\n%s\nupdate it with: %s", path, diff, hint)
	}
}

// UpdateFile writes the snapshot to path, creating parent directories.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := s.encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff reports how s differs from golden; "" means they encode the same.
func (s *Snapshot) Diff(golden *Snapshot) string {
	want, errWant := golden.generic()
	got, errGot := s.generic()
	if err := stderrors.Join(errWant, errGot); err != nil {
		return fmt.Sprintf("cannot compare snapshots: %v", err)
	}
	return cmp.Diff(want, got)
}

func captureRenderNode(r layout.RenderNode) *RenderNode {
	size, offset := r.Size(), r.Offset()
	node := &RenderNode{
		ID:     r.Describe(),
		Type:   renderTypeName(r),
		Size:   [2]float64{round2(size.Width), round2(size.Height)},
		Offset: [2]float64{round2(offset.X), round2(offset.Y)},
	}
	for _, child := range r.Children() {
		node.Children = append(node.Children, captureRenderNode(child))
	}
	return node
}

func renderTypeName(r layout.RenderNode) string {
	t := reflect.TypeOf(r)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func readSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap := new(Snapshot)
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return snap, nil
}

func (s *Snapshot) encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// generic decodes the encoded snapshot into maps and slices, so a capture
// and a golden file loaded from disk compare with the same value types.
func (s *Snapshot) generic() (any, error) {
	data, err := s.encode()
	if err != nil {
		return nil, err
	}
	var v any
	err = json.Unmarshal(data, &v)
	return v, err
}
