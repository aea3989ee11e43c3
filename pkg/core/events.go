package core

import (
	"sync"
	"sync/atomic"
	"weak"

	"github.com/go-drift/fabric/pkg/graphics"
)

// LayoutEventName is the event dispatched when a node's frame changes.
const LayoutEventName = "layout"

// Event is one event travelling from a node to the host.
type Event struct {
	Tag     Tag
	Name    string
	Payload any
}

// EventPipe delivers events to the host.
type EventPipe func(Event)

// EventDispatcher fans events from emitters into a pipe. Emitters hold it
// weakly, so dropping the dispatcher silences every emitter of a surface.
type EventDispatcher struct {
	pipe       EventPipe
	dispatched atomic.Uint64
}

// NewEventDispatcher creates a dispatcher writing to pipe.
func NewEventDispatcher(pipe EventPipe) *EventDispatcher {
	return &EventDispatcher{pipe: pipe}
}

// Dispatch sends ev down the pipe.
func (d *EventDispatcher) Dispatch(ev Event) {
	d.dispatched.Add(1)
	if d.pipe != nil {
		d.pipe(ev)
	}
}

// Dispatched returns the number of events sent so far.
func (d *EventDispatcher) Dispatched() uint64 {
	return d.dispatched.Load()
}

// EventEmitter sends events on behalf of one family. It starts disabled
// and is enabled while the family is mounted.
type EventEmitter struct {
	tag        Tag
	dispatcher weak.Pointer[EventDispatcher]
	enabled    atomic.Bool

	mu         sync.Mutex
	lastLayout graphics.Rect
	hasLayout  bool
}

// NewEventEmitter creates an emitter for tag. dispatcher may be nil.
func NewEventEmitter(tag Tag, dispatcher *EventDispatcher) *EventEmitter {
	e := &EventEmitter{tag: tag}
	if dispatcher != nil {
		e.dispatcher = weak.Make(dispatcher)
	}
	return e
}

// Tag returns the tag events are stamped with.
func (e *EventEmitter) Tag() Tag { return e.tag }

// SetEnabled turns delivery on or off.
func (e *EventEmitter) SetEnabled(enabled bool) { e.enabled.Store(enabled) }

// Enabled reports whether events are delivered.
func (e *EventEmitter) Enabled() bool { return e.enabled.Load() }

// Dispatch sends an event. It returns false when the emitter is disabled
// or its dispatcher is gone.
func (e *EventEmitter) Dispatch(name string, payload any) bool {
	if !e.enabled.Load() {
		return false
	}
	d := e.dispatcher.Value()
	if d == nil {
		return false
	}
	d.Dispatch(Event{Tag: e.tag, Name: name, Payload: payload})
	return true
}

// DispatchLayout sends a layout event when frame differs from the last one
// sent.
func (e *EventEmitter) DispatchLayout(frame graphics.Rect) bool {
	e.mu.Lock()
	if e.hasLayout && e.lastLayout.Equal(frame) {
		e.mu.Unlock()
		return false
	}
	prev, hadPrev := e.lastLayout, e.hasLayout
	e.lastLayout, e.hasLayout = frame, true
	e.mu.Unlock()

	if !e.Dispatch(LayoutEventName, frame) {
		e.mu.Lock()
		e.lastLayout, e.hasLayout = prev, hadPrev
		e.mu.Unlock()
		return false
	}
	return true
}
