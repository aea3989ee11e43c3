// Package errors provides structured error handling for the renderer core.
//
// Three classes of failure exist. Invariant violations (mutating a sealed
// node, re-entrant commits) are programmer errors and escalate through
// [Fatal]. Degenerate layout input never surfaces as an error at all.
// Everything else (stale transactions, bad props, config problems) is
// reported through the installed [ErrorHandler] and otherwise ignored.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvariant indicates a broken structural invariant.
	KindInvariant
	// KindLayout indicates a layout anomaly that was degraded to a default.
	KindLayout
	// KindCommit indicates a commit that could not be published.
	KindCommit
	// KindMount indicates a rejected or stale mounting transaction.
	KindMount
	// KindProps indicates raw props that could not be converted.
	KindProps
	// KindConfig indicates a configuration loading or validation failure.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvariant:
		return "invariant"
	case KindLayout:
		return "layout"
	case KindCommit:
		return "commit"
	case KindMount:
		return "mount"
	case KindProps:
		return "props"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FabricError represents a structured error in the renderer core.
type FabricError struct {
	// Op is the operation that failed (e.g., "mounting.PullTransaction").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// SurfaceID is the surface involved, if any.
	SurfaceID int32
	// Tag is the shadow node tag involved, if any.
	Tag int32
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FabricError) Error() string {
	if e.Tag != 0 {
		return fmt.Sprintf("%s [%s] surface=%d tag=%d: %v", e.Op, e.Kind, e.SurfaceID, e.Tag, e.Err)
	}
	if e.SurfaceID != 0 {
		return fmt.Sprintf("%s [%s] surface=%d: %v", e.Op, e.Kind, e.SurfaceID, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FabricError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "platform.MountingBridge.Mount").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// InvariantError is the value raised by [Fatal]. It is never returned as a
// regular error; it travels as a panic value.
type InvariantError struct {
	// Op is the operation whose precondition failed.
	Op string
	// Message describes the violated invariant.
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Message)
}

// ErrorHandler receives errors reported by the renderer core.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FabricError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
