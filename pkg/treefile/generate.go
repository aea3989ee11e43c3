package treefile

import (
	"fmt"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/core"
)

// GenerateList returns a document of a scrolling list with rows rows of
// text. Every step after the first rotates the list by one row, grows one
// row and replaces one with a new instance, so each revision exercises
// moves, updates, inserts and deletes.
func GenerateList(rows, steps int) *Document {
	rows = max(rows, 1)
	steps = max(steps, 1)
	doc := &Document{Surface: 1, Width: 360, Height: 640}
	nextTag := core.Tag(2)
	alloc := func() core.Tag {
		tag := nextTag
		nextTag += 3
		return tag
	}

	ids := make([]core.Tag, rows)
	for i := range ids {
		ids[i] = alloc()
	}
	for s := range steps {
		if s > 0 {
			ids = append(ids[1:], ids[0])
			ids[len(ids)/2] = alloc()
		}
		items := make([]Node, len(ids))
		for i, tag := range ids {
			height := 44
			if i == s%len(ids) {
				height = 88
			}
			items[i] = row(tag, height, fmt.Sprintf("row %d", tag))
		}
		doc.Steps = append(doc.Steps, Step{
			Name: fmt.Sprintf("step %d", s),
			Children: []Node{{
				Tag:       core.Tag(doc.Surface) + 1000000,
				Component: components.ScrollViewName,
				Props:     map[string]any{"flexGrow": 1},
				Children:  items,
			}},
		})
	}
	return doc
}

// row uses tag for the row view and the two tags after it for its text.
func row(tag core.Tag, height int, text string) Node {
	return Node{
		Tag:       tag,
		Component: components.ViewName,
		Props:     map[string]any{"height": height, "flexDirection": "row", "padding": 8, "collapsable": false},
		Children: []Node{{
			Tag:       tag + 1,
			Component: components.ParagraphName,
			Props:     map[string]any{"flexGrow": 1},
			Children: []Node{{
				Tag:       tag + 2,
				Component: components.RawTextName,
				Props:     map[string]any{"text": text},
			}},
		}},
	}
}
