package platform

import (
	"fmt"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/mounting"
)

// HostMounter applies mount items to host views. It is called on the UI
// thread only.
type HostMounter interface {
	ExecuteMount(msg *TransactionMessage) error
}

// HostMounterFunc adapts a function to HostMounter.
type HostMounterFunc func(msg *TransactionMessage) error

func (f HostMounterFunc) ExecuteMount(msg *TransactionMessage) error { return f(msg) }

// EncodingMounter encodes every message with Codec before handing the bytes
// to Send, for hosts that live across a serialization boundary.
type EncodingMounter struct {
	Codec MessageCodec
	Send  func(data []byte) error
}

func (m *EncodingMounter) ExecuteMount(msg *TransactionMessage) error {
	codec := m.Codec
	if codec == nil {
		codec = DefaultCodec
	}
	data, err := codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode transaction %d: %w", msg.Revision, err)
	}
	return m.Send(data)
}

// BridgeOptions configure a MountingBridge.
type BridgeOptions struct {
	// Dispatcher schedules mounts on the UI thread. Dispatch is used when
	// nil.
	Dispatcher Dispatcher
	// MaintainMutationOrder emits mount items in mutation order instead of
	// grouping them by type.
	MaintainMutationOrder bool
	// DidMount is called on the UI thread after MountPending applied a
	// transaction of a surface. It may commit.
	DidMount func(id core.SurfaceID)
}

type surfaceMount struct {
	coordinator *mounting.MountingCoordinator
	allocated   mapset.Set[core.Tag]
	revision    uint64
}

// MountingBridge pulls transactions from the coordinators of running
// surfaces on the UI thread and applies them through a HostMounter.
type MountingBridge struct {
	host          HostMounter
	dispatch      Dispatcher
	maintainOrder bool
	didMount      func(core.SurfaceID)

	mu       sync.Mutex
	surfaces map[core.SurfaceID]*surfaceMount
	mounting atomic.Bool
}

// NewMountingBridge creates a bridge applying transactions through host.
func NewMountingBridge(host HostMounter, opts BridgeOptions) *MountingBridge {
	dispatch := opts.Dispatcher
	if dispatch == nil {
		dispatch = func(cb func()) { Dispatch(cb) }
	}
	return &MountingBridge{
		host:          host,
		dispatch:      dispatch,
		maintainOrder: opts.MaintainMutationOrder,
		didMount:      opts.DidMount,
		surfaces:      make(map[core.SurfaceID]*surfaceMount),
	}
}

// StartSurface registers the coordinator of a surface. The host is assumed
// to show the coordinator's mounted revision already, usually just the
// root view.
func (b *MountingBridge) StartSurface(c *mounting.MountingCoordinator) {
	mounted := c.MountedRevision()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surfaces[c.SurfaceID()] = &surfaceMount{
		coordinator: c,
		allocated:   mounting.BuildStubViewTree(mounted.Root).Tags(),
		revision:    mounted.Number,
	}
}

// StopSurface forgets a surface. Transactions that arrive for it later are
// reported and dropped.
func (b *MountingBridge) StopSurface(id core.SurfaceID) {
	b.mu.Lock()
	delete(b.surfaces, id)
	b.mu.Unlock()
}

// AllocatedViews returns the number of host views the surface holds.
func (b *MountingBridge) AllocatedViews(id core.SurfaceID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.surfaces[id]; ok {
		return s.allocated.Cardinality()
	}
	return 0
}

// SchedulerDidStartSurface registers the surface of coordinator.
func (b *MountingBridge) SchedulerDidStartSurface(c *mounting.MountingCoordinator) {
	b.StartSurface(c)
}

// SchedulerDidStopSurface forgets surface id once the UI thread has
// mounted everything scheduled before.
func (b *MountingBridge) SchedulerDidStopSurface(id core.SurfaceID) {
	b.dispatch(func() { b.StopSurface(id) })
}

// SchedulerDidFinishTransaction schedules a mount of the new revision.
// Synchronous mounts are scheduled the same way; a Synchronous
// dispatcher runs them before the commit returns.
func (b *MountingBridge) SchedulerDidFinishTransaction(c *mounting.MountingCoordinator, _ bool) {
	b.ScheduleMount(c)
}

// ScheduleMount asks the UI thread to pull and apply the pending
// transaction of c.
func (b *MountingBridge) ScheduleMount(c *mounting.MountingCoordinator) {
	b.dispatch(func() { b.MountPending(c.SurfaceID()) })
}

// MountPending pulls the pending transaction of surface id and applies it.
// It must run on the UI thread and must not be called from inside the
// host mounter. It reports whether a transaction was applied.
func (b *MountingBridge) MountPending(id core.SurfaceID) bool {
	b.mu.Lock()
	s, ok := b.surfaces[id]
	b.mu.Unlock()
	if !ok {
		return false
	}
	applied := false
	pulled := s.coordinator.Telemetry().PullTransaction(func(tx *mounting.MountingTransaction) {
		applied = b.ExecuteTransaction(tx)
	})
	if applied && b.didMount != nil {
		b.didMount(id)
	}
	return pulled
}

// ExecuteTransaction applies tx to the host. Transactions for unknown
// surfaces and transactions not newer than the last one applied are
// reported and ignored. It reports whether tx reached the host.
func (b *MountingBridge) ExecuteTransaction(tx *mounting.MountingTransaction) bool {
	const op = "platform.MountingBridge.ExecuteTransaction"
	if !b.mounting.CompareAndSwap(false, true) {
		errors.Fatal(op, "re-entrant mount of surface %d revision %d", tx.SurfaceID, tx.Number)
	}
	defer b.mounting.Store(false)

	b.mu.Lock()
	s, ok := b.surfaces[tx.SurfaceID]
	b.mu.Unlock()
	if !ok {
		report(op, tx.SurfaceID, 0, fmt.Errorf("revision %d: %w", tx.Number, ErrUnknownSurface))
		return false
	}
	if tx.Number <= s.revision {
		report(op, tx.SurfaceID, 0, fmt.Errorf("revision %d after %d: %w", tx.Number, s.revision, ErrStaleTransaction))
		return false
	}

	builder := &mountItemBuilder{allocated: s.allocated, maintainOrder: b.maintainOrder}
	b.mu.Lock()
	for _, m := range tx.Mutations {
		builder.add(m)
	}
	b.mu.Unlock()
	for _, tag := range builder.unallocated {
		report(op, tx.SurfaceID, tag, ErrUnallocatedView)
	}
	s.revision = tx.Number

	msg := &TransactionMessage{SurfaceID: tx.SurfaceID, Revision: tx.Number, Items: builder.items()}
	if err := b.host.ExecuteMount(msg); err != nil {
		report(op, tx.SurfaceID, 0, err)
	}

	for _, m := range tx.Mutations {
		if m.Type == mounting.MutationDelete && m.OldChild.Family != nil {
			m.OldChild.Family.MarkDestroyed()
		}
	}
	return true
}

func report(op string, surface core.SurfaceID, tag core.Tag, err error) {
	errors.Report(&errors.FabricError{
		Op:        op,
		Kind:      errors.KindMount,
		Err:       err,
		SurfaceID: int32(surface),
		Tag:       int32(tag),
	})
}
