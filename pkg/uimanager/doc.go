// Package uimanager is the entry point the description layer uses to build
// shadow trees.
//
// Nodes are created with CreateNode, assembled with AppendChild and
// CloneNode, and published with CompleteSurface, which commits a new root
// to the surface's ShadowTree. State updates and native prop changes from
// the host side are turned into commits of their own. Every finished
// transaction is forwarded to the Delegate, which usually schedules a
// mount on the UI thread.
package uimanager
