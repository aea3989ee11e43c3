package treefile

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/mounting"
	"github.com/go-drift/fabric/pkg/uimanager"
)

// Player commits the steps of a document one by one. Nodes whose props
// and children did not change since the previous step are reused as they
// are, so unchanged subtrees are shared between revisions.
type Player struct {
	ui    *uimanager.UIManager
	doc   *Document
	next  int
	nodes map[core.Tag]*core.ShadowNode
}

// NewPlayer returns a player for doc. The document's surface must be
// started on ui before the first step.
func NewPlayer(ui *uimanager.UIManager, doc *Document) *Player {
	return &Player{ui: ui, doc: doc, nodes: make(map[core.Tag]*core.ShadowNode)}
}

// Done reports whether every step was played.
func (p *Player) Done() bool { return p.next >= len(p.doc.Steps) }

// Position returns the index of the next step.
func (p *Player) Position() int { return p.next }

// Node returns the node built for tag in the last step played.
func (p *Player) Node(tag core.Tag) *core.ShadowNode { return p.nodes[tag] }

// Step builds and commits the next step. It returns false once every step
// was played.
func (p *Player) Step() (bool, error) {
	if p.Done() {
		return false, nil
	}
	index := p.next
	step := p.doc.Steps[index]
	p.next++

	id := p.doc.Surface
	if step.Size != nil {
		if status := p.ui.ConstraintSurfaceLayout(id, core.ExactLayout(*step.Size), p.ui.LayoutContext()); status != mounting.CommitSucceeded {
			return true, fmt.Errorf("step %d: resize %s", index, status)
		}
	}

	nodes := make(map[core.Tag]*core.ShadowNode)
	children := make([]*core.ShadowNode, 0, len(step.Children))
	for _, n := range step.Children {
		child, err := p.build(n, nodes)
		if err != nil {
			return true, fmt.Errorf("step %d: %w", index, err)
		}
		children = append(children, child)
	}
	p.nodes = nodes

	if status := p.ui.CompleteSurface(id, children, p.ui.CommitOptions()); status != mounting.CommitSucceeded {
		return true, fmt.Errorf("step %d: commit %s", index, status)
	}
	return true, nil
}

// PlayAll plays the remaining steps and returns the number played.
func (p *Player) PlayAll() (int, error) {
	played := 0
	for {
		ok, err := p.Step()
		if err != nil || !ok {
			return played, err
		}
		played++
	}
}

func (p *Player) build(n Node, nodes map[core.Tag]*core.ShadowNode) (*core.ShadowNode, error) {
	children := make([]*core.ShadowNode, len(n.Children))
	for i, c := range n.Children {
		child, err := p.build(c, nodes)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	var node *core.ShadowNode
	if prev, ok := p.nodes[n.Tag]; ok {
		var err error
		if node, err = p.update(prev, n, children); err != nil {
			return nil, err
		}
	} else {
		created, err := p.ui.CreateNode(n.Tag, n.Component, p.doc.Surface, core.RawProps(n.Props))
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			p.ui.AppendChild(created, child)
		}
		node = created
	}
	nodes[n.Tag] = node
	return node, nil
}

// update returns prev itself when nothing changed, and a clone carrying
// the changes otherwise.
func (p *Player) update(prev *core.ShadowNode, n Node, children []*core.ShadowNode) (*core.ShadowNode, error) {
	next := n.Props
	if prev.ComponentName() != n.Component {
		// The fallback component carries the requested name as a prop.
		next = core.RawProps{"name": string(n.Component)}.Merge(next)
	}
	patch := propsPatch(prev.Props().Raw(), next)
	var list *core.ChildList
	if !sameChildren(prev.Children(), children) {
		list = core.Children(children...)
	}
	if len(patch) == 0 && list == nil {
		return prev, nil
	}
	return p.ui.CloneNode(prev, list, patch)
}

// propsPatch returns the changes turning prev into next. Removed keys map
// to nil.
func propsPatch(prev core.RawProps, next map[string]any) core.RawProps {
	patch := core.RawProps{}
	for k, v := range next {
		if old, ok := prev[k]; !ok || !reflect.DeepEqual(old, v) {
			patch[k] = v
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			patch[k] = nil
		}
	}
	return patch
}

func sameChildren(prev core.ChildList, next []*core.ShadowNode) bool {
	if prev.Len() != len(next) {
		return false
	}
	for i, child := range prev.All() {
		if child != next[i] {
			return false
		}
	}
	return true
}
