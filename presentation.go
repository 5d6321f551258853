// Package pptdom is a document object model for PowerPoint (.pptx) files
// that resolves inherited shape properties.
//
// Placeholder shapes on a slide usually store only what differs from their
// template. pptdom walks the slide -> layout -> master reference chain, the
// master's text styles and the theme to answer what a run's colour, size,
// weight and typeface, or a shape's position and geometry, actually are.
// Every read goes to the live XML tree; setters change only the shape they
// are called on.
//
// See the Version variable for the current library version.
package pptdom

import (
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("pptdom")

// Presentation is an opened .pptx package: its slides in presentation
// order, the layouts, masters and themes they reference, and the raw
// bytes of every other entry so the package can be written back.
type Presentation struct {
	entries []string          // zip entry names in archive order
	raw     map[string][]byte // original bytes by entry name
	parts   map[string]*Part
	themes  map[string]*Theme
	slides  []*Part
}

// GetSlide returns a slide by index.
func (p *Presentation) GetSlide(index int) (*Part, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, errors.Wrapf(ErrNotFound, "slide index %d out of range (0-%d)", index, len(p.slides)-1)
	}
	return p.slides[index], nil
}

// Slides returns all slides in presentation order.
func (p *Presentation) Slides() []*Part {
	return p.slides
}

// GetSlideCount returns the number of slides.
func (p *Presentation) GetSlideCount() int {
	return len(p.slides)
}

// Layouts returns the layouts referenced by at least one slide, in the
// order they were first reached.
func (p *Presentation) Layouts() []*Part {
	return p.partsAt(LevelLayout)
}

// Masters returns the masters reachable from the slides.
func (p *Presentation) Masters() []*Part {
	return p.partsAt(LevelMaster)
}

func (p *Presentation) partsAt(level ReferenceLevel) []*Part {
	var out []*Part
	seen := make(map[*Part]bool)
	for _, s := range p.slides {
		for cur := s; cur != nil; cur = cur.next {
			if cur.level == level && !seen[cur] {
				seen[cur] = true
				out = append(out, cur)
			}
		}
	}
	return out
}

// Part returns a loaded slide, layout or master part by name, e.g.
// ppt/slideLayouts/slideLayout2.xml.
func (p *Presentation) Part(name string) (*Part, error) {
	if part, ok := p.parts[name]; ok {
		return part, nil
	}
	return nil, errors.Wrapf(ErrNotFound, "part %s", name)
}

// ExtractText returns the text of every slide, one shape per line.
func (p *Presentation) ExtractText() string {
	var parts []string
	for _, slide := range p.slides {
		for _, s := range slide.AllShapes() {
			parts = append(parts, s.Text())
		}
	}
	return joinNonEmpty(parts, "\n")
}
