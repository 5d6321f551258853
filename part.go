package pptdom

import (
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
)

// ReferenceLevel identifies which level of the template hierarchy a part
// belongs to. Slides inherit from layouts and layouts from masters.
type ReferenceLevel int

const (
	LevelSlide ReferenceLevel = iota
	LevelLayout
	LevelMaster
)

func (l ReferenceLevel) String() string {
	switch l {
	case LevelSlide:
		return "slide"
	case LevelLayout:
		return "layout"
	case LevelMaster:
		return "master"
	default:
		return fmt.Sprintf("ReferenceLevel(%d)", int(l))
	}
}

// Part is one parsed slide, layout or master part. It owns the live XML tree
// and a link to the part one level up, if any.
type Part struct {
	name  string
	level ReferenceLevel
	doc   *xmlquery.Node
	next  *Part  // layout for a slide, master for a layout
	theme *Theme // masters only
	dirty bool
}

// ParsePart parses the XML of a slide, layout or master part.
func ParsePart(name string, level ReferenceLevel, r io.Reader) (*Part, error) {
	if level < LevelSlide || level > LevelMaster {
		return nil, errors.Errorf("parse %s: unknown reference level %d", name, level)
	}
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	root := rootElement(doc)
	if root == nil {
		return nil, malformed(&Part{name: name}, "", errors.New("part has no document element"))
	}
	if want := rootNameFor(level); root.Data != want {
		return nil, malformed(&Part{name: name}, qname(root),
			errors.Errorf("expected <%s> root for a %s part", want, level))
	}
	return &Part{name: name, level: level, doc: doc}, nil
}

func rootNameFor(level ReferenceLevel) string {
	switch level {
	case LevelLayout:
		return "sldLayout"
	case LevelMaster:
		return "sldMaster"
	default:
		return "sld"
	}
}

// Name returns the part name, e.g. ppt/slides/slide1.xml.
func (p *Part) Name() string { return p.name }

// Level returns the part's reference level.
func (p *Part) Level() ReferenceLevel { return p.level }

// Next returns the part one reference level up: the layout of a slide or the
// master of a layout. Masters return nil.
func (p *Part) Next() *Part { return p.next }

// Link attaches the next reference level. A slide links to a layout and a
// layout to a master; nothing else is accepted.
func (p *Part) Link(next *Part) error {
	if next == nil {
		return errors.Wrapf(ErrPartLink, "%s: nil target", p.name)
	}
	if p.level == LevelMaster || next.level != p.level+1 {
		return errors.Wrapf(ErrPartLink, "%s (%s) cannot reference %s (%s)", p.name, p.level, next.name, next.level)
	}
	p.next = next
	return nil
}

// SetTheme attaches the theme of a master part.
func (p *Part) SetTheme(t *Theme) error {
	if p.level != LevelMaster {
		return errors.Wrapf(ErrPartLink, "%s: only masters carry a theme", p.name)
	}
	p.theme = t
	return nil
}

// Layout returns the layout of a slide part, or nil.
func (p *Part) Layout() *Part {
	if p.level == LevelSlide {
		return p.next
	}
	return nil
}

// Master walks up to the owning master. A master returns itself.
func (p *Part) Master() *Part {
	cur := p
	for cur != nil && cur.level != LevelMaster {
		cur = cur.next
	}
	return cur
}

// Theme returns the theme reachable from this part, or nil.
func (p *Part) Theme() *Theme {
	if m := p.Master(); m != nil {
		return m.theme
	}
	return nil
}

// Dirty reports whether a setter has mutated this part since it was parsed.
func (p *Part) Dirty() bool { return p.dirty }

func (p *Part) touch() { p.dirty = true }

// OutputXML serialises the live tree of the part.
func (p *Part) OutputXML() string {
	return p.doc.OutputXML(true)
}

func (p *Part) root() *xmlquery.Node { return rootElement(p.doc) }

// spTree returns the shape tree element (p:cSld/p:spTree).
func (p *Part) spTree() *xmlquery.Node {
	return descend(p.root(), "cSld", "spTree")
}

// Shapes returns the top-level shapes of the part in document order.
func (p *Part) Shapes() []*Shape {
	var out []*Shape
	for _, n := range elements(p.spTree()) {
		if isShapeElement(n) {
			out = append(out, &Shape{part: p, node: n})
		}
	}
	return out
}

// AllShapes returns every shape in the part, descending into groups,
// in document order.
func (p *Part) AllShapes() []*Shape {
	var out []*Shape
	var walk func(*xmlquery.Node)
	walk = func(parent *xmlquery.Node) {
		for _, n := range elements(parent) {
			if !isShapeElement(n) {
				continue
			}
			out = append(out, &Shape{part: p, node: n})
			if n.Data == "grpSp" {
				walk(n)
			}
		}
	}
	walk(p.spTree())
	return out
}

// Placeholders returns the placeholder shapes of the part in document
// order. These are the candidates the matcher searches.
func (p *Part) Placeholders() []*Shape {
	var out []*Shape
	for _, s := range p.AllShapes() {
		if _, ok := s.Placeholder(); ok {
			out = append(out, s)
		}
	}
	return out
}

// ShapeByName returns the first shape whose non-visual name matches.
func (p *Part) ShapeByName(name string) (*Shape, error) {
	for _, s := range p.AllShapes() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%s: shape %q", p.name, name)
}

// ShapeByID returns the shape with the given cNvPr id.
func (p *Part) ShapeByID(id int) (*Shape, error) {
	for _, s := range p.AllShapes() {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%s: shape id %d", p.name, id)
}

// RoleStyle returns the master's text style for a placeholder role:
// p:titleStyle for titles, p:bodyStyle for body text and p:otherStyle for
// everything else. Non-master parts delegate to their master.
func (p *Part) RoleStyle(role PlaceholderRole) ListStyle {
	m := p.Master()
	if m == nil {
		return ListStyle{}
	}
	styles := child(m.root(), "txStyles")
	switch role {
	case RoleTitle, RoleCenteredTitle:
		return parseListStyle(child(styles, "titleStyle"))
	case RoleBody, RoleSubTitle:
		return parseListStyle(child(styles, "bodyStyle"))
	default:
		return parseListStyle(child(styles, "otherStyle"))
	}
}

// colorMapping returns the scheme-slot mapping in effect for this part:
// an a:overrideClrMapping on the part itself or on a part above it, else the
// master's p:clrMap. An a:masterClrMapping defers to the next level up.
func (p *Part) colorMapping() *xmlquery.Node {
	for cur := p; cur != nil; cur = cur.next {
		root := cur.root()
		if cur.level == LevelMaster {
			return child(root, "clrMap")
		}
		if ovr := descend(root, "clrMapOvr", "overrideClrMapping"); ovr != nil {
			return ovr
		}
	}
	return nil
}
