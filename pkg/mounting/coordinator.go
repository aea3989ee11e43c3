package mounting

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
)

// ShadowTreeRevision is one published, sealed state of a shadow tree.
// Revisions are immutable once published.
type ShadowTreeRevision struct {
	Root      *core.ShadowNode
	Number    uint64
	Telemetry TransactionTelemetry
}

// MountingTransaction is what the host applies: the mutations that bring
// the mounted tree from the previously pulled revision to revision
// Number.
type MountingTransaction struct {
	SurfaceID core.SurfaceID
	Number    uint64
	Mutations Mutations
	Telemetry TransactionTelemetry
}

// CoordinatorOptions configure a MountingCoordinator.
type CoordinatorOptions struct {
	// TelemetrySamples is the ring buffer size of the telemetry
	// controller.
	TelemetrySamples int
	Clock            Clock
	// VerifyMutations applies every pulled transaction to a StubViewTree
	// and reports a KindMount error when the result does not match the
	// pulled revision.
	VerifyMutations bool
}

// MountingCoordinator hands committed revisions of one surface to the
// host. The commit side pushes revisions; the mount side pulls
// transactions, which are diffed from the last pulled revision straight
// to the newest one, so revisions committed in between are never mounted.
//
// The host must finish applying a transaction before pulling the next one
// and must not pull from inside a mutation callback.
type MountingCoordinator struct {
	surfaceID core.SurfaceID
	clock     Clock
	telemetry *TelemetryController

	mu        sync.Mutex
	base      *ShadowTreeRevision
	last      *ShadowTreeRevision
	coalesced int
	signal    chan struct{}
	differ    *Differ
	stubs     *StubViewTree
}

// NewMountingCoordinator creates a coordinator whose mounted state is
// base.
func NewMountingCoordinator(base *ShadowTreeRevision, opts CoordinatorOptions) *MountingCoordinator {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	c := &MountingCoordinator{
		surfaceID: base.Root.SurfaceID(),
		clock:     clock,
		base:      base,
		signal:    make(chan struct{}),
		differ:    NewDiffer(),
	}
	if opts.VerifyMutations {
		c.stubs = BuildStubViewTree(base.Root)
	}
	c.telemetry = newTelemetryController(c, opts.TelemetrySamples, clock)
	return c
}

// SurfaceID returns the surface the coordinator serves.
func (c *MountingCoordinator) SurfaceID() core.SurfaceID { return c.surfaceID }

// Telemetry returns the coordinator's telemetry controller.
func (c *MountingCoordinator) Telemetry() *TelemetryController { return c.telemetry }

// Push offers a newly committed revision. Revisions whose number is not
// greater than every revision seen so far are refused.
func (c *MountingCoordinator) Push(revision *ShadowTreeRevision) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	latest := c.base.Number
	if c.last != nil {
		latest = c.last.Number
	}
	if revision.Number <= latest {
		return false
	}
	c.last = revision
	c.coalesced++
	close(c.signal)
	c.signal = make(chan struct{})
	return true
}

// Revoke drops the pending revision, if any. The next pull diffs from the
// mounted revision to whatever is pushed afterwards.
func (c *MountingCoordinator) Revoke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = nil
	c.coalesced = 0
}

// HasPendingTransactions reports whether a pull would return a
// transaction.
func (c *MountingCoordinator) HasPendingTransactions() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last != nil
}

// MountedRevision returns the last pulled revision.
func (c *MountingCoordinator) MountedRevision() *ShadowTreeRevision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

// MountedRevisionNumber returns the number of the last pulled revision.
func (c *MountingCoordinator) MountedRevisionNumber() uint64 {
	return c.MountedRevision().Number
}

// WaitForTransaction blocks until a transaction is pending or ctx is done.
// It reports whether a transaction is pending.
func (c *MountingCoordinator) WaitForTransaction(ctx context.Context) bool {
	for {
		c.mu.Lock()
		if c.last != nil {
			c.mu.Unlock()
			return true
		}
		signal := c.signal
		c.mu.Unlock()

		select {
		case <-signal:
		case <-ctx.Done():
			return false
		}
	}
}

// PullTransaction returns the pending transaction without blocking. The
// second result is false when nothing is pending.
func (c *MountingCoordinator) PullTransaction() (*MountingTransaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil, false
	}

	telemetry := c.last.Telemetry
	telemetry.RevisionsCoalesced = c.coalesced
	telemetry.DiffStart = c.clock.Now()
	mutations := c.differ.Diff(c.base.Root, c.last.Root)
	telemetry.DiffEnd = c.clock.Now()

	tx := &MountingTransaction{
		SurfaceID: c.surfaceID,
		Number:    c.last.Number,
		Mutations: mutations,
		Telemetry: telemetry,
	}
	if c.stubs != nil {
		c.verify(tx, c.last.Root)
	}
	c.base, c.last, c.coalesced = c.last, nil, 0
	return tx, true
}

// DiffStats returns the differ counters of the last pull.
func (c *MountingCoordinator) DiffStats() DiffStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.differ.Stats()
}

func (c *MountingCoordinator) verify(tx *MountingTransaction, root *core.ShadowNode) {
	err := c.stubs.Mutate(tx.Mutations)
	if err == nil && !c.stubs.Equal(BuildStubViewTree(root)) {
		err = fmt.Errorf("revision %d: mutated stub tree does not match the revision", tx.Number)
	}
	if err != nil {
		errors.Report(&errors.FabricError{
			Op:        "mounting.MountingCoordinator.PullTransaction",
			Kind:      errors.KindMount,
			Err:       err,
			SurfaceID: int32(c.surfaceID),
		})
		c.stubs = BuildStubViewTree(root)
	}
}
