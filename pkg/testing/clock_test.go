package testing

import (
	"testing"
	"time"

	"github.com/go-drift/fabric/pkg/graphics"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestFakeClock_AutoStep(t *testing.T) {
	clk := NewFakeClock()
	clk.SetAutoStep(time.Millisecond)

	first := clk.Now()
	second := clk.Now()
	if got := second.Sub(first); got != time.Millisecond {
		t.Errorf("step between readings = %v, want 1ms", got)
	}

	clk.SetAutoStep(0)
	if !clk.Now().Equal(clk.Now()) {
		t.Error("clock moved with auto step off")
	}
}

func TestSurfaceTester_TelemetryUsesClock(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	tester.Clock().SetAutoStep(time.Millisecond)

	view, err := tester.Create("View", map[string]any{"height": 10, "collapsable": false})
	if err != nil {
		t.Fatal(err)
	}
	if err := tester.Complete(view); err != nil {
		t.Fatal(err)
	}

	samples := tester.ShadowTree().MountingCoordinator().Telemetry().Samples()
	if len(samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(samples))
	}
	if samples[0].Total() <= 0 {
		t.Errorf("total = %v, want a positive span", samples[0].Total())
	}
	if got := tester.Find(ByTag(view.Tag())).Frame().Size; got != (graphics.Size{Width: DefaultTestWidth, Height: 10}) {
		t.Errorf("frame size = %v, want 800x10", got)
	}
}
