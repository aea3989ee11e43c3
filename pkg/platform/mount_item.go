package platform

import (
	"fmt"
	"math"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
)

// MountItemType names one host operation.
type MountItemType string

const (
	MountCreate             MountItemType = "create"
	MountDelete             MountItemType = "delete"
	MountInsert             MountItemType = "insert"
	MountRemove             MountItemType = "remove"
	MountUpdateProps        MountItemType = "updateProps"
	MountUpdateState        MountItemType = "updateState"
	MountUpdatePadding      MountItemType = "updatePadding"
	MountUpdateLayout       MountItemType = "updateLayout"
	MountUpdateEventEmitter MountItemType = "updateEventEmitter"
)

// PixelRect is a frame in host pixels.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PixelInsets are content insets in host pixels.
type PixelInsets struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// MountItem is one operation the host applies. Which fields are set
// depends on Type.
type MountItem struct {
	Type       MountItemType      `json:"type"`
	Tag        core.Tag           `json:"tag"`
	Parent     core.Tag           `json:"parent,omitempty"`
	Index      int                `json:"index,omitempty"`
	Component  core.ComponentName `json:"component,omitempty"`
	Layoutable bool               `json:"layoutable,omitempty"`
	Props      core.RawProps      `json:"props,omitempty"`
	State      any                `json:"state,omitempty"`
	Frame      *PixelRect         `json:"frame,omitempty"`
	Insets     *PixelInsets       `json:"insets,omitempty"`
	Display    string             `json:"display,omitempty"`
	Direction  string             `json:"direction,omitempty"`
}

func (m MountItem) String() string {
	switch m.Type {
	case MountInsert, MountRemove:
		return fmt.Sprintf("%s #%d in #%d at %d", m.Type, m.Tag, m.Parent, m.Index)
	case MountCreate:
		return fmt.Sprintf("%s %s#%d", m.Type, m.Component, m.Tag)
	default:
		return fmt.Sprintf("%s #%d", m.Type, m.Tag)
	}
}

// TransactionMessage is the wire form of one mounting transaction.
type TransactionMessage struct {
	SurfaceID core.SurfaceID `json:"surfaceId"`
	Revision  uint64         `json:"revision"`
	Items     []MountItem    `json:"items"`
}

// mountItemBuilder translates mutations into mount items. Unless order is
// maintained, items are grouped: structural items first, then prop, state,
// padding, layout and event emitter updates, and deletes last.
type mountItemBuilder struct {
	allocated     mapset.Set[core.Tag]
	maintainOrder bool

	common      []MountItem
	props       []MountItem
	states      []MountItem
	padding     []MountItem
	layout      []MountItem
	emitters    []MountItem
	deletes     []MountItem
	unallocated []core.Tag
}

func (b *mountItemBuilder) push(group *[]MountItem, item MountItem) {
	if b.maintainOrder {
		group = &b.common
	}
	*group = append(*group, item)
}

func (b *mountItemBuilder) add(m mounting.Mutation) {
	switch m.Type {
	case mounting.MutationCreate:
		v := m.NewChild
		if b.allocated.Contains(v.Tag) {
			return
		}
		b.allocated.Add(v.Tag)
		// A view deleted and recreated in one transaction must be deleted
		// before it is created again.
		if i := slices.IndexFunc(b.deletes, func(d MountItem) bool { return d.Tag == v.Tag }); i >= 0 {
			b.common = append(b.common, b.deletes[i])
			b.deletes = slices.Delete(b.deletes, i, i+1)
		}
		b.common = append(b.common, MountItem{
			Type:       MountCreate,
			Tag:        v.Tag,
			Component:  v.ComponentName,
			Layoutable: !v.LayoutMetrics.IsEmpty(),
			Props:      rawProps(v),
			State:      stateData(v),
		})

	case mounting.MutationDelete:
		b.push(&b.deletes, MountItem{Type: MountDelete, Tag: m.OldChild.Tag})
		if !b.allocated.Contains(m.OldChild.Tag) {
			b.unallocated = append(b.unallocated, m.OldChild.Tag)
		}
		b.allocated.Remove(m.OldChild.Tag)

	case mounting.MutationRemove:
		b.common = append(b.common, MountItem{
			Type:   MountRemove,
			Tag:    m.OldChild.Tag,
			Parent: m.Parent.Tag,
			Index:  m.Index,
		})

	case mounting.MutationInsert:
		v := m.NewChild
		if !b.allocated.Contains(v.Tag) {
			b.unallocated = append(b.unallocated, v.Tag)
		}
		b.common = append(b.common, MountItem{
			Type:   MountInsert,
			Tag:    v.Tag,
			Parent: m.Parent.Tag,
			Index:  m.Index,
		})
		if v.State != nil {
			b.push(&b.states, stateItem(v))
		}
		if v.LayoutMetrics.ContentInsets != (graphics.EdgeInsets{}) {
			b.push(&b.padding, paddingItem(v))
		}
		b.push(&b.layout, layoutItem(v, m.Parent.Tag))
		b.push(&b.emitters, MountItem{Type: MountUpdateEventEmitter, Tag: v.Tag})

	case mounting.MutationUpdate:
		prev, v := m.OldChild, m.NewChild
		if !b.allocated.Contains(v.Tag) {
			b.unallocated = append(b.unallocated, v.Tag)
		}
		if prev.Props != v.Props {
			b.push(&b.props, MountItem{Type: MountUpdateProps, Tag: v.Tag, Props: rawProps(v)})
		}
		if prev.State != v.State {
			b.push(&b.states, stateItem(v))
		}
		if !prev.LayoutMetrics.ContentInsets.Equal(v.LayoutMetrics.ContentInsets) {
			b.push(&b.padding, paddingItem(v))
		}
		if !prev.LayoutMetrics.Equal(v.LayoutMetrics) {
			b.push(&b.layout, layoutItem(v, m.Parent.Tag))
		}
		if prev.EventEmitter != v.EventEmitter {
			b.push(&b.emitters, MountItem{Type: MountUpdateEventEmitter, Tag: v.Tag})
		}
	}
}

func (b *mountItemBuilder) items() []MountItem {
	n := len(b.common) + len(b.props) + len(b.states) + len(b.padding) +
		len(b.layout) + len(b.emitters) + len(b.deletes)
	items := make([]MountItem, 0, n)
	for _, group := range [][]MountItem{b.common, b.props, b.states, b.padding, b.layout, b.emitters, b.deletes} {
		items = append(items, group...)
	}
	return items
}

func rawProps(v mounting.ShadowView) core.RawProps {
	if v.Props == nil {
		return nil
	}
	return v.Props.Raw()
}

func stateData(v mounting.ShadowView) any {
	if v.State == nil {
		return nil
	}
	return v.State.Data()
}

func stateItem(v mounting.ShadowView) MountItem {
	return MountItem{Type: MountUpdateState, Tag: v.Tag, State: stateData(v)}
}

func paddingItem(v mounting.ShadowView) MountItem {
	m := v.LayoutMetrics
	insets := m.ContentInsets
	return MountItem{Type: MountUpdatePadding, Tag: v.Tag, Insets: &PixelInsets{
		Left:   int(math.Floor(insets.Left * m.PointScaleFactor)),
		Top:    int(math.Floor(insets.Top * m.PointScaleFactor)),
		Right:  int(math.Floor(insets.Right * m.PointScaleFactor)),
		Bottom: int(math.Floor(insets.Bottom * m.PointScaleFactor)),
	}}
}

func layoutItem(v mounting.ShadowView, parent core.Tag) MountItem {
	m := v.LayoutMetrics
	return MountItem{
		Type:      MountUpdateLayout,
		Tag:       v.Tag,
		Parent:    parent,
		Frame:     PixelFrame(m.Frame, m.PointScaleFactor),
		Display:   m.DisplayType.String(),
		Direction: m.LayoutDirection.String(),
	}
}

// PixelFrame converts a frame in points to host pixels.
func PixelFrame(frame graphics.Rect, scale float64) *PixelRect {
	if scale <= 0 {
		scale = 1
	}
	return &PixelRect{
		X:      int(math.Round(frame.Origin.X * scale)),
		Y:      int(math.Round(frame.Origin.Y * scale)),
		Width:  int(math.Round(frame.Size.Width * scale)),
		Height: int(math.Round(frame.Size.Height * scale)),
	}
}

// MountItems translates mutations into the items a host applies. allocated
// tracks the views the host holds and is updated in place; a nil set is
// treated as empty.
func MountItems(mutations mounting.Mutations, allocated mapset.Set[core.Tag], maintainOrder bool) []MountItem {
	if allocated == nil {
		allocated = mapset.NewThreadUnsafeSet[core.Tag]()
	}
	b := &mountItemBuilder{allocated: allocated, maintainOrder: maintainOrder}
	for _, m := range mutations {
		b.add(m)
	}
	return b.items()
}

// EncodeTransaction encodes tx for a host that was never sent any view of
// the surface before.
func EncodeTransaction(codec MessageCodec, tx *mounting.MountingTransaction) ([]byte, error) {
	if codec == nil {
		codec = DefaultCodec
	}
	return codec.Encode(&TransactionMessage{
		SurfaceID: tx.SurfaceID,
		Revision:  tx.Number,
		Items:     MountItems(tx.Mutations, nil, false),
	})
}

// DecodeTransaction decodes a message produced by EncodeTransaction with
// the JSON codec.
func DecodeTransaction(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := (JsonCodec{}).DecodeInto(data, &msg); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &msg, nil
}
