package platform

import "errors"

// Sentinel errors for mounting on the host.
var (
	// ErrStaleTransaction is reported when a transaction is not newer than
	// the one last applied to its surface.
	ErrStaleTransaction = errors.New("platform: stale transaction")

	// ErrUnknownSurface is reported when a transaction arrives for a
	// surface that was never started or was already stopped.
	ErrUnknownSurface = errors.New("platform: unknown surface")

	// ErrUnallocatedView is reported when a mutation refers to a view the
	// host never created.
	ErrUnallocatedView = errors.New("platform: unallocated view")
)
