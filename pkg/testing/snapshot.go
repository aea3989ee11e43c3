package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/mounting"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// UpdateSnapshotsEnv is the environment variable that turns MatchesFile
// into an update.
const UpdateSnapshotsEnv = "FABRIC_UPDATE_SNAPSHOTS"

// Snapshot captures the mounted view tree of a surface.
type Snapshot struct {
	Surface  int32     `json:"surface"`
	Revision uint64    `json:"revision"`
	Views    *ViewNode `json:"views"`
}

// ViewNode represents a mounted view. Frame is x, y, width and height
// relative to the parent view.
type ViewNode struct {
	ID       string         `json:"id"`
	Frame    [4]float64     `json:"frame"`
	Props    map[string]any `json:"props,omitempty"`
	State    any            `json:"state,omitempty"`
	Children []*ViewNode    `json:"children,omitempty"`
}

// CaptureSnapshot captures the views the host shows after the last mount.
func (t *SurfaceTester) CaptureSnapshot() *Snapshot {
	views := t.Views()
	return &Snapshot{
		Surface:  int32(t.surface),
		Revision: t.tree.MountingCoordinator().MountedRevisionNumber(),
		Views:    captureView(views.Root()),
	}
}

// SnapshotOf captures a stub view tree.
func SnapshotOf(tree *mounting.StubViewTree) *Snapshot {
	root := tree.Root()
	return &Snapshot{Surface: int32(root.SurfaceID), Views: captureView(root)}
}

func captureView(v *mounting.StubView) *ViewNode {
	frame := v.LayoutMetrics.Frame
	node := &ViewNode{
		ID: fmt.Sprintf("%s#%d", v.ComponentName, v.Tag),
		Frame: [4]float64{
			round2(frame.Origin.X), round2(frame.Origin.Y),
			round2(frame.Size.Width), round2(frame.Size.Height),
		},
	}
	// Root props only echo the surface constraints.
	if v.Props != nil && !v.Traits.Has(core.TraitRoot) {
		if raw := v.Props.Raw(); len(raw) > 0 {
			node.Props = make(map[string]any, len(raw))
			for k, val := range raw {
				node.Props[k] = val
			}
		}
	}
	if v.State != nil {
		node.State = v.State.Data()
	}
	for _, child := range v.Children {
		node.Children = append(node.Children, captureView(child))
	}
	return node
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// FABRIC_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := range max(len(expectedLines), len(actualLines)) {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
