// Package layout implements a flexbox layout engine over a tree of Nodes.
//
// A Node carries a Style and, for leaves whose size depends on content, a
// MeasureFunc. CalculateLayout resolves every node's position and size
// relative to its owner, following the CSS flexbox model: flex basis,
// grow and shrink, wrapping, justification and cross-axis alignment,
// absolute positioning, min/max constraints, aspect ratio and gaps.
//
// Each node caches its last layout and a small ring of measurements keyed
// by the constraints they were taken under, so unchanged subtrees are not
// revisited and measure callbacks are not repeated for equivalent
// constraints. Results are rounded to the pixel grid of the root's Config.
//
// Nodes may be shared between trees. A child reachable from a node that
// does not own it is cloned before layout writes to it, so a laid-out
// tree never mutates a node another tree still references.
package layout
