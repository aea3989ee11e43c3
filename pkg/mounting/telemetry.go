package mounting

import (
	"sync"
	"time"

	"github.com/jamiealquiza/tachymeter"

	"github.com/go-drift/fabric/pkg/layout"
)

// Clock provides time for telemetry. Tests inject a fake clock to get
// deterministic durations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// TransactionTelemetry records when each phase of one transaction ran.
type TransactionTelemetry struct {
	CommitStart time.Time
	CommitEnd   time.Time
	LayoutStart time.Time
	LayoutEnd   time.Time
	DiffStart   time.Time
	DiffEnd     time.Time
	MountStart  time.Time
	MountEnd    time.Time

	// AffectedLayoutNodes is the number of nodes whose metrics changed.
	AffectedLayoutNodes int
	LayoutStats         layout.Stats
	// RevisionsCoalesced is the number of committed revisions folded into
	// the transaction; 1 when none was skipped.
	RevisionsCoalesced int
}

func (t TransactionTelemetry) CommitDuration() time.Duration { return t.CommitEnd.Sub(t.CommitStart) }
func (t TransactionTelemetry) LayoutDuration() time.Duration { return t.LayoutEnd.Sub(t.LayoutStart) }
func (t TransactionTelemetry) DiffDuration() time.Duration { return t.DiffEnd.Sub(t.DiffStart) }
func (t TransactionTelemetry) MountDuration() time.Duration { return t.MountEnd.Sub(t.MountStart) }

const (
	telemetrySamplesDefault = 512
	defaultSlowThreshold    = 16667 * time.Microsecond
)

// TelemetrySample is the record kept for one mounted transaction.
type TelemetrySample struct {
	Revision  uint64
	Commit    time.Duration
	Layout    time.Duration
	Diff      time.Duration
	Mount     time.Duration
	Mutations int
	Affected  int
	Coalesced int
}

// Total returns the time spent between commit start and mount end,
// excluding idle time between phases.
func (s TelemetrySample) Total() time.Duration {
	return s.Commit + s.Diff + s.Mount
}

// PhaseSummary aggregates one phase over the recorded samples.
type PhaseSummary struct {
	Avg time.Duration
	P50 time.Duration
	P99 time.Duration
	Max time.Duration
}

// TelemetrySummary aggregates the recorded samples.
type TelemetrySummary struct {
	Transactions     int
	SlowTransactions int
	Commit           PhaseSummary
	Layout           PhaseSummary
	Diff             PhaseSummary
	Mount            PhaseSummary
}

// TelemetryController wraps a coordinator's pull so mount time is
// measured, and keeps the most recent samples in a ring buffer.
type TelemetryController struct {
	coordinator *MountingCoordinator
	clock       Clock

	mu        sync.RWMutex
	samples   []TelemetrySample
	index     int
	count     int
	slow      int
	threshold time.Duration
	commit    *tachymeter.Tachymeter
	layout    *tachymeter.Tachymeter
	diff      *tachymeter.Tachymeter
	mount     *tachymeter.Tachymeter
}

func newTelemetryController(coordinator *MountingCoordinator, capacity int, clock Clock) *TelemetryController {
	if capacity <= 0 {
		capacity = telemetrySamplesDefault
	}
	if clock == nil {
		clock = SystemClock
	}
	return &TelemetryController{
		coordinator: coordinator,
		clock:       clock,
		samples:     make([]TelemetrySample, capacity),
		threshold:   defaultSlowThreshold,
		commit:      tachymeter.New(&tachymeter.Config{Size: capacity}),
		layout:      tachymeter.New(&tachymeter.Config{Size: capacity}),
		diff:        tachymeter.New(&tachymeter.Config{Size: capacity}),
		mount:       tachymeter.New(&tachymeter.Config{Size: capacity}),
	}
}

// SetSlowThreshold sets the total duration above which a transaction is
// counted as slow.
func (c *TelemetryController) SetSlowThreshold(threshold time.Duration) {
	if threshold <= 0 {
		threshold = defaultSlowThreshold
	}
	c.mu.Lock()
	c.threshold = threshold
	c.mu.Unlock()
}

// PullTransaction pulls the next transaction from the coordinator and
// passes it to mount, timing the call. It returns false when nothing was
// pending.
func (c *TelemetryController) PullTransaction(mount func(tx *MountingTransaction)) bool {
	tx, ok := c.coordinator.PullTransaction()
	if !ok {
		return false
	}
	tx.Telemetry.MountStart = c.clock.Now()
	mount(tx)
	tx.Telemetry.MountEnd = c.clock.Now()
	c.Record(tx)
	return true
}

// Record adds a sample for a mounted transaction.
func (c *TelemetryController) Record(tx *MountingTransaction) {
	t := tx.Telemetry
	sample := TelemetrySample{
		Revision:  tx.Number,
		Commit:    t.CommitDuration(),
		Layout:    t.LayoutDuration(),
		Diff:      t.DiffDuration(),
		Mount:     t.MountDuration(),
		Mutations: len(tx.Mutations),
		Affected:  t.AffectedLayoutNodes,
		Coalesced: t.RevisionsCoalesced,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[c.index] = sample
	c.index = (c.index + 1) % len(c.samples)
	if c.count < len(c.samples) {
		c.count++
	}
	if sample.Total() > c.threshold {
		c.slow++
	}
	c.commit.AddTime(sample.Commit)
	c.layout.AddTime(sample.Layout)
	c.diff.AddTime(sample.Diff)
	c.mount.AddTime(sample.Mount)
}

// Samples returns the recorded samples, oldest first.
func (c *TelemetryController) Samples() []TelemetrySample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.count == 0 {
		return nil
	}
	result := make([]TelemetrySample, c.count)
	if c.count < len(c.samples) {
		copy(result, c.samples[:c.count])
	} else {
		copy(result, c.samples[c.index:])
		copy(result[len(c.samples)-c.index:], c.samples[:c.index])
	}
	return result
}

// Summary aggregates all samples recorded so far.
func (c *TelemetryController) Summary() TelemetrySummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := TelemetrySummary{SlowTransactions: c.slow}
	if c.count == 0 {
		return s
	}
	commit := c.commit.Calc()
	s.Transactions = commit.Count
	s.Commit = phaseSummary(commit)
	s.Layout = phaseSummary(c.layout.Calc())
	s.Diff = phaseSummary(c.diff.Calc())
	s.Mount = phaseSummary(c.mount.Calc())
	return s
}

func phaseSummary(m *tachymeter.Metrics) PhaseSummary {
	return PhaseSummary{Avg: m.Time.Avg, P50: m.Time.P50, P99: m.Time.P99, Max: m.Time.Max}
}

// Reset drops every sample.
func (c *TelemetryController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index, c.count, c.slow = 0, 0, 0
	c.commit.Reset()
	c.layout.Reset()
	c.diff.Reset()
	c.mount.Reset()
}
