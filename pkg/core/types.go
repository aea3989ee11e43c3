package core

// Tag identifies a component instance. It is stable across revisions and
// unique within a surface.
type Tag int32

// SurfaceID identifies one independently rendered tree.
type SurfaceID int32

// ComponentName names a component type, such as "View" or "Paragraph".
type ComponentName string

// ComponentHandle is an opaque id for a component type, derived from its name.
type ComponentHandle int64
