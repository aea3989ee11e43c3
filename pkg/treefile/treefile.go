// Package treefile reads YAML documents that describe successive
// revisions of one surface, and plays them against a UIManager.
//
// A document looks like this:
//
//	surface: 1
//	width: 320
//	height: 480
//	steps:
//	  - name: initial
//	    children:
//	      - tag: 2
//	        component: View
//	        props: {height: 40, collapsable: false}
//	        children:
//	          - {tag: 3, component: Paragraph, children: [{tag: 4, component: RawText, props: {text: hi}}]}
//	  - name: taller
//	    children:
//	      - {tag: 2, component: View, props: {height: 80, collapsable: false}}
//
// Nodes with the same tag in consecutive steps are revisions of the same
// component instance.
package treefile

import (
	"fmt"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
)

// Document is a sequence of revisions of one surface.
type Document struct {
	Surface core.SurfaceID `yaml:"surface"`
	Width   float64        `yaml:"width"`
	Height  float64        `yaml:"height"`
	Steps   []Step         `yaml:"steps"`
}

// Step is one revision: the full list of root children. Size, when set,
// resizes the surface before the children are committed.
type Step struct {
	Name     string         `yaml:"name,omitempty"`
	Size     *graphics.Size `yaml:"size,omitempty"`
	Children []Node         `yaml:"children"`
}

// Node describes one shadow node.
type Node struct {
	Tag       core.Tag           `yaml:"tag"`
	Component core.ComponentName `yaml:"component"`
	Props     map[string]any     `yaml:"props,omitempty"`
	Children  []Node             `yaml:"children,omitempty"`
}

// Constraints returns the exact constraints of the document's surface.
func (d *Document) Constraints() core.LayoutConstraints {
	return core.ExactLayout(graphics.Size{Width: d.Width, Height: d.Height})
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	if doc.Surface == 0 {
		doc.Surface = 1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes d as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Validate reports the first structural problem of d.
func (d *Document) Validate() error {
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("surface size %vx%v is negative", d.Width, d.Height)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("document has no steps")
	}
	components := make(map[core.Tag]core.ComponentName)
	for i, step := range d.Steps {
		if step.Size != nil && (step.Size.Width < 0 || step.Size.Height < 0) {
			return fmt.Errorf("step %d: size %v is negative", i, *step.Size)
		}
		seen := mapset.NewThreadUnsafeSet[core.Tag]()
		for _, n := range step.Children {
			if err := d.validateNode(n, seen, components); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}

func (d *Document) validateNode(n Node, seen mapset.Set[core.Tag], components map[core.Tag]core.ComponentName) error {
	switch {
	case n.Tag <= 0:
		return fmt.Errorf("node %q: tag must be positive", n.Component)
	case n.Tag == core.Tag(d.Surface):
		return fmt.Errorf("tag %d is the surface root's", n.Tag)
	case n.Component == "":
		return fmt.Errorf("tag %d: component is required", n.Tag)
	}
	if !seen.Add(n.Tag) {
		return fmt.Errorf("tag %d appears twice", n.Tag)
	}
	if prev, ok := components[n.Tag]; ok && prev != n.Component {
		return fmt.Errorf("tag %d changes component from %s to %s", n.Tag, prev, n.Component)
	}
	components[n.Tag] = n.Component
	for _, child := range n.Children {
		if err := d.validateNode(child, seen, components); err != nil {
			return err
		}
	}
	return nil
}
