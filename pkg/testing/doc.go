// Package testing runs a surface through commit, layout, diffing and
// mounting without a real host.
//
// # Quick Start
//
// Create a tester, commit some nodes, and make assertions against the
// views the host would show:
//
//	func TestCard(t *testing.T) {
//	    tester := fabrictest.NewSurfaceTesterWithT(t)
//	    badge, _ := tester.Create("View", core.RawProps{"width": 20, "height": 10})
//	    card, _ := tester.Create("View", core.RawProps{"height": 40}, badge)
//	    if err := tester.Complete(card); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    frame := tester.Find(fabrictest.ByTag(badge.Tag())).Frame()
//	    if frame.Size.Width != 20 {
//	        t.Errorf("width = %v, want 20", frame.Size.Width)
//	    }
//	}
//
// Transactions are mounted when the tester pumps its UI thread queue.
// Complete and Resize pump once; state updates need an explicit Pump.
//
// # Snapshot Testing
//
// Capture and compare mounted view snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/card.snapshot.json")
//
// Update snapshots with:
//
//	FABRIC_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Time
//
// Telemetry and mount reports read the tester's fake clock:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fabrictest "github.com/go-drift/fabric/pkg/testing"
package testing
