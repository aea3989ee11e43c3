package uimanager

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/mounting"
)

// ShadowTreeRegistry holds the shadow trees of running surfaces. It is safe
// for concurrent use.
type ShadowTreeRegistry struct {
	mu    sync.RWMutex
	trees map[core.SurfaceID]*mounting.ShadowTree
}

// NewShadowTreeRegistry returns an empty registry.
func NewShadowTreeRegistry() *ShadowTreeRegistry {
	return &ShadowTreeRegistry{trees: make(map[core.SurfaceID]*mounting.ShadowTree)}
}

// Add registers tree under its surface. It returns false, leaving the
// registry unchanged, when the surface already has a tree.
func (r *ShadowTreeRegistry) Add(tree *mounting.ShadowTree) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trees[tree.SurfaceID()]; ok {
		return false
	}
	r.trees[tree.SurfaceID()] = tree
	return true
}

// Remove unregisters the tree of surface id and returns it, or nil.
func (r *ShadowTreeRegistry) Remove(id core.SurfaceID) *mounting.ShadowTree {
	r.mu.Lock()
	defer r.mu.Unlock()
	tree := r.trees[id]
	delete(r.trees, id)
	return tree
}

// Get returns the tree of surface id.
func (r *ShadowTreeRegistry) Get(id core.SurfaceID) (*mounting.ShadowTree, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tree, ok := r.trees[id]
	return tree, ok
}

// Visit calls fn with the tree of surface id and reports whether the
// surface was found. fn runs without the registry lock held, so it may
// commit.
func (r *ShadowTreeRegistry) Visit(id core.SurfaceID, fn func(tree *mounting.ShadowTree)) bool {
	tree, ok := r.Get(id)
	if ok {
		fn(tree)
	}
	return ok
}

// Enumerate calls fn for every registered tree until fn returns false.
// The order is unspecified.
func (r *ShadowTreeRegistry) Enumerate(fn func(tree *mounting.ShadowTree) bool) {
	r.mu.RLock()
	trees := make([]*mounting.ShadowTree, 0, len(r.trees))
	for _, tree := range r.trees {
		trees = append(trees, tree)
	}
	r.mu.RUnlock()
	for _, tree := range trees {
		if !fn(tree) {
			return
		}
	}
}

// SurfaceIDs returns a snapshot of the running surfaces.
func (r *ShadowTreeRegistry) SurfaceIDs() mapset.Set[core.SurfaceID] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := mapset.NewThreadUnsafeSet[core.SurfaceID]()
	for id := range r.trees {
		ids.Add(id)
	}
	return ids
}

// Len returns the number of running surfaces.
func (r *ShadowTreeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trees)
}
