// Package scheduler wires the renderer core together: it owns the UIManager
// of an application, the component registry and text measurement it is
// built with, and forwards every finished transaction to the host's
// Delegate.
package scheduler

import (
	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/config"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
	"github.com/go-drift/fabric/pkg/textlayout"
	"github.com/go-drift/fabric/pkg/uimanager"
)

// Delegate is the host side of a Scheduler. platform.MountingBridge
// implements it.
type Delegate interface {
	// SchedulerDidFinishTransaction is called from the committing
	// goroutine after a revision was pushed to coordinator.
	SchedulerDidFinishTransaction(coordinator *mounting.MountingCoordinator, mountSynchronously bool)
}

// SurfaceDelegate is implemented by delegates that track running
// surfaces.
type SurfaceDelegate interface {
	Delegate
	SchedulerDidStartSurface(coordinator *mounting.MountingCoordinator)
	SchedulerDidStopSurface(id core.SurfaceID)
}

// Toolbox holds what a Scheduler is built from. Only Delegate is required.
type Toolbox struct {
	// Config defaults to config.Default.
	Config *config.Config
	// Registry defaults to the built-in components, measuring text with
	// TextLayoutManager.
	Registry *core.ComponentDescriptorRegistry
	// TextLayoutManager defaults to a manager configured from Config.
	TextLayoutManager *textlayout.Manager
	Delegate          Delegate
	// Clock drives telemetry.
	Clock mounting.Clock
	// Events receives node events such as layout changes.
	Events core.EventPipe
	// VerifyMutations checks every pulled transaction against a stub view
	// tree.
	VerifyMutations bool
}

// Scheduler is the top-level object a host creates once per application.
type Scheduler struct {
	config   *config.Config
	text     *textlayout.Manager
	registry *core.ComponentDescriptorRegistry
	events   *core.EventDispatcher
	delegate Delegate
	ui       *uimanager.UIManager
}

// New builds a Scheduler from toolbox.
func New(toolbox Toolbox) (*Scheduler, error) {
	const op = "scheduler.New"
	if toolbox.Delegate == nil {
		return nil, &errors.FabricError{Op: op, Kind: errors.KindConfig, Err: errMissingDelegate}
	}
	cfg := toolbox.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &errors.FabricError{Op: op, Kind: errors.KindConfig, Err: err}
	}

	text := toolbox.TextLayoutManager
	if text == nil {
		text = textlayout.NewManager(textlayout.Options{
			CacheSize:       cfg.Text.CacheSize,
			DefaultFontSize: cfg.Text.DefaultFontSize,
		})
	}
	registry := toolbox.Registry
	if registry == nil {
		var err error
		registry, err = components.NewRegistry(components.Options{
			LayoutConfig: core.NewLayoutConfig(cfg.Layout.MaxCachedMeasurements),
			Text:         text,
		})
		if err != nil {
			return nil, &errors.FabricError{Op: op, Kind: errors.KindConfig, Err: err}
		}
	}

	s := &Scheduler{
		config:   cfg,
		text:     text,
		registry: registry,
		events:   core.NewEventDispatcher(toolbox.Events),
		delegate: toolbox.Delegate,
	}
	ui, err := uimanager.New(uimanager.Options{
		Registry:        registry,
		Config:          cfg,
		Events:          s.events,
		Clock:           toolbox.Clock,
		VerifyMutations: toolbox.VerifyMutations,
	})
	if err != nil {
		return nil, err
	}
	ui.SetDelegate(s)
	s.ui = ui
	return s, nil
}

// UIManager returns the scheduler's UIManager.
func (s *Scheduler) UIManager() *uimanager.UIManager { return s.ui }

// Config returns the configuration the scheduler runs with.
func (s *Scheduler) Config() *config.Config { return s.config }

// TextLayoutManager returns the manager paragraphs are measured with.
func (s *Scheduler) TextLayoutManager() *textlayout.Manager { return s.text }

// Registry returns the component registry.
func (s *Scheduler) Registry() *core.ComponentDescriptorRegistry { return s.registry }

// EventsDispatched returns the number of node events sent to the pipe.
func (s *Scheduler) EventsDispatched() uint64 { return s.events.Dispatched() }

// StartSurface starts surface id laid out under constraints, with the
// configured layout context.
func (s *Scheduler) StartSurface(id core.SurfaceID, constraints core.LayoutConstraints) (*mounting.ShadowTree, error) {
	tree, err := s.ui.StartSurface(id, constraints, s.ui.LayoutContext())
	if err != nil {
		return nil, err
	}
	if d, ok := s.delegate.(SurfaceDelegate); ok {
		d.SchedulerDidStartSurface(tree.MountingCoordinator())
	}
	return tree, nil
}

// StopSurface stops surface id. Its last transaction, which deletes every
// view, reaches the delegate before the surface is stopped there.
func (s *Scheduler) StopSurface(id core.SurfaceID) {
	if s.ui.StopSurface(id) == nil {
		return
	}
	if d, ok := s.delegate.(SurfaceDelegate); ok {
		d.SchedulerDidStopSurface(id)
	}
}

// ConstraintSurfaceLayout changes the constraints of a running surface.
func (s *Scheduler) ConstraintSurfaceLayout(id core.SurfaceID, constraints core.LayoutConstraints) mounting.CommitStatus {
	return s.ui.ConstraintSurfaceLayout(id, constraints, s.ui.LayoutContext())
}

// MeasureSurface returns the size surface id would take under
// constraints.
func (s *Scheduler) MeasureSurface(id core.SurfaceID, constraints core.LayoutConstraints) (graphics.Size, error) {
	return s.ui.MeasureSurface(id, constraints, s.ui.LayoutContext())
}

// ReportMount is called by the host after it mounted a transaction.
func (s *Scheduler) ReportMount(id core.SurfaceID) {
	s.ui.ReportMount(id)
}

// UIManagerDidFinishTransaction forwards to the delegate.
func (s *Scheduler) UIManagerDidFinishTransaction(coordinator *mounting.MountingCoordinator, mountSynchronously bool) {
	s.delegate.SchedulerDidFinishTransaction(coordinator, mountSynchronously)
}
