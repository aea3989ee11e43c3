package uimanager

import (
	"sync"
	"time"

	"github.com/go-drift/fabric/pkg/core"
)

// CommitHook sees every commit of every surface before layout.
type CommitHook interface {
	// ShadowTreeWillCommit returns the root to commit instead of newRoot,
	// newRoot itself to accept it, or nil to cancel the commit.
	ShadowTreeWillCommit(surfaceID core.SurfaceID, oldRoot, newRoot *core.ShadowNode) *core.ShadowNode
}

// CommitHookFunc adapts a function to CommitHook.
type CommitHookFunc func(surfaceID core.SurfaceID, oldRoot, newRoot *core.ShadowNode) *core.ShadowNode

func (f CommitHookFunc) ShadowTreeWillCommit(surfaceID core.SurfaceID, oldRoot, newRoot *core.ShadowNode) *core.ShadowNode {
	return f(surfaceID, oldRoot, newRoot)
}

// MountHook is told when the host finished mounting a revision.
type MountHook interface {
	ShadowTreeDidMount(root *core.ShadowNode, mountTime time.Time)
}

// MountHookFunc adapts a function to MountHook.
type MountHookFunc func(root *core.ShadowNode, mountTime time.Time)

func (f MountHookFunc) ShadowTreeDidMount(root *core.ShadowNode, mountTime time.Time) {
	f(root, mountTime)
}

// hookList is an ordered list of hooks that can be unregistered by the
// func returned from add.
type hookList[H any] struct {
	mu     sync.RWMutex
	nextID uint64
	hooks  []hookEntry[H]
}

type hookEntry[H any] struct {
	id   uint64
	hook H
}

func (l *hookList[H]) add(h H) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := l.nextID
	l.hooks = append(l.hooks, hookEntry[H]{id: id, hook: h})
	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *hookList[H]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.hooks {
		if e.id == id {
			l.hooks = append(l.hooks[:i:i], l.hooks[i+1:]...)
			return
		}
	}
}

// snapshot returns the hooks in registration order. Hooks run outside the
// lock so they may register or unregister hooks.
func (l *hookList[H]) snapshot() []H {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]H, len(l.hooks))
	for i, e := range l.hooks {
		out[i] = e.hook
	}
	return out
}

func (l *hookList[H]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.hooks)
}
