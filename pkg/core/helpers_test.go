package core

import (
	"testing"

	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/layout"
)

type testProps struct {
	raw   RawProps
	style layout.Style
}

func (p *testProps) Raw() RawProps { return p.raw }
func (p *testProps) LayoutStyle() layout.Style { return p.style }

func styled(mutate func(s *layout.Style)) *testProps {
	s := layout.DefaultStyle()
	if mutate != nil {
		mutate(&s)
	}
	return &testProps{style: s}
}

func sized(w, h float64) *testProps {
	return styled(func(s *layout.Style) {
		s.Width = layout.Points(w)
		s.Height = layout.Points(h)
	})
}

var (
	testRoot = &ConcreteComponentDescriptor{
		ComponentName:   "Root",
		ComponentTraits: TraitLayoutable | TraitFormsView | TraitRoot | TraitRootNodeKind,
	}
	testView = &ConcreteComponentDescriptor{
		ComponentName:   "View",
		ComponentTraits: TraitLayoutable | TraitFormsView,
	}
	testVirtual = &ConcreteComponentDescriptor{
		ComponentName:   "Virtual",
		ComponentTraits: TraitFormsView,
	}
)

func newNode(d ComponentDescriptor, tag Tag, props Props, children ...*ShadowNode) *ShadowNode {
	family := d.CreateFamily(FamilyFragment{Tag: tag, SurfaceID: 1})
	return d.CreateShadowNode(Fragment{Props: props, Children: Children(children...)}, family)
}

type quietHandler struct {
	errors []*errors.FabricError
}

func (h *quietHandler) HandleError(err *errors.FabricError) { h.errors = append(h.errors, err) }
func (h *quietHandler) HandlePanic(*errors.PanicError) {}

func silenceErrors(t *testing.T) *quietHandler {
	t.Helper()
	h := &quietHandler{}
	prev := errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(prev) })
	return h
}

// expectInvariant runs fn and fails unless it raises errors.Fatal.
func expectInvariant(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if _, ok := r.(*errors.InvariantError); !ok {
			t.Errorf("recovered %v, want *errors.InvariantError", r)
		}
	}()
	fn()
}
