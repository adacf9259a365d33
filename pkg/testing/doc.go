// Package testing drives an arbor engine from tests.
//
// # Quick Start
//
// Create a tester, pump a configuration tree and make assertions:
//
//	func TestToolbar(t *testing.T) {
//	    tester := arbortest.NewTesterWithT(t)
//	    k := tester.Kinds()
//	    tester.PumpNode(k.RowOf(nil, k.TextOf("Save"), k.TextOf("Quit")))
//
//	    save, ok := tester.RectOf(arbortest.ByText("Save"))
//	    if !ok || save.Left != 0 {
//	        t.Errorf("Save at %v", save)
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare geometry and instance tree snapshots:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/toolbar.snapshot.json")
//
// Update snapshots with:
//
//	ARBOR_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import arbortest "github.com/go-drift/arbor/pkg/testing"
package testing
