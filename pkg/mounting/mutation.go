package mounting

import (
	"fmt"
	"strings"
)

// MutationType identifies one kind of mount instruction.
type MutationType uint8

const (
	MutationCreate MutationType = iota + 1
	MutationDelete
	MutationInsert
	MutationRemove
	MutationUpdate
)

func (t MutationType) String() string {
	switch t {
	case MutationCreate:
		return "Create"
	case MutationDelete:
		return "Delete"
	case MutationInsert:
		return "Insert"
	case MutationRemove:
		return "Remove"
	case MutationUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

// Mutation is one instruction for the host view tree.
//
// Create and Delete carry only NewChild or OldChild. Insert and Remove
// carry Parent, the child and its index in the parent's mounted children.
// Update carries both views; its Index is informational and -1 for the
// root.
type Mutation struct {
	Type     MutationType
	Parent   ShadowView
	OldChild ShadowView
	NewChild ShadowView
	Index    int
}

// CreateMutation creates a detached view.
func CreateMutation(view ShadowView) Mutation {
	return Mutation{Type: MutationCreate, NewChild: view, Index: -1}
}

// DeleteMutation destroys a detached view.
func DeleteMutation(view ShadowView) Mutation {
	return Mutation{Type: MutationDelete, OldChild: view, Index: -1}
}

// InsertMutation attaches child to parent at index.
func InsertMutation(parent, child ShadowView, index int) Mutation {
	return Mutation{Type: MutationInsert, Parent: parent, NewChild: child, Index: index}
}

// RemoveMutation detaches child, currently at index, from parent.
func RemoveMutation(parent, child ShadowView, index int) Mutation {
	return Mutation{Type: MutationRemove, Parent: parent, OldChild: child, Index: index}
}

// UpdateMutation replaces the props, state or layout of a mounted view.
func UpdateMutation(parent, oldChild, newChild ShadowView, index int) Mutation {
	return Mutation{Type: MutationUpdate, Parent: parent, OldChild: oldChild, NewChild: newChild, Index: index}
}

// View returns the view the mutation is about.
func (m Mutation) View() ShadowView {
	if m.Type == MutationDelete || m.Type == MutationRemove {
		return m.OldChild
	}
	return m.NewChild
}

func (m Mutation) String() string {
	switch m.Type {
	case MutationInsert, MutationRemove:
		return fmt.Sprintf("%s %s @%d in %s", m.Type, m.View(), m.Index, m.Parent)
	default:
		return fmt.Sprintf("%s %s", m.Type, m.View())
	}
}

// Mutations is an ordered mutation list.
type Mutations []Mutation

// Count returns the number of mutations of type t.
func (ms Mutations) Count(t MutationType) int {
	n := 0
	for _, m := range ms {
		if m.Type == t {
			n++
		}
	}
	return n
}

func (ms Mutations) String() string {
	var sb strings.Builder
	for i, m := range ms {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
