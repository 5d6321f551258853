package pptdom

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ShapeType represents the kind of shape element.
type ShapeType int

const (
	ShapeTypeAutoShape    ShapeType = iota // p:sp
	ShapeTypeDrawing                       // p:pic
	ShapeTypeGraphicFrame                  // p:graphicFrame (tables, charts)
	ShapeTypeConnector                     // p:cxnSp
	ShapeTypeGroup                         // p:grpSp
)

var shapeElements = map[string]ShapeType{
	"sp":           ShapeTypeAutoShape,
	"pic":          ShapeTypeDrawing,
	"graphicFrame": ShapeTypeGraphicFrame,
	"cxnSp":        ShapeTypeConnector,
	"grpSp":        ShapeTypeGroup,
}

func isShapeElement(n *xmlquery.Node) bool {
	if n == nil || n.Type != xmlquery.ElementNode {
		return false
	}
	_, ok := shapeElements[n.Data]
	return ok
}

// shapeNvPrName returns the local name of the non-visual properties
// container of a shape element.
func shapeNvPrName(n *xmlquery.Node) string {
	switch n.Data {
	case "pic":
		return "nvPicPr"
	case "graphicFrame":
		return "nvGraphicFramePr"
	case "cxnSp":
		return "nvCxnSpPr"
	case "grpSp":
		return "nvGrpSpPr"
	default:
		return "nvSpPr"
	}
}

// Shape is a handle to one shape element inside a part. Handles are cheap
// and hold no state of their own; every accessor reads the live tree.
type Shape struct {
	part *Part
	node *xmlquery.Node
}

// Part returns the part the shape lives in.
func (s *Shape) Part() *Part { return s.part }

// Level returns the reference level of the shape's part.
func (s *Shape) Level() ReferenceLevel { return s.part.level }

// GetType returns the kind of shape element.
func (s *Shape) GetType() ShapeType { return shapeElements[s.node.Data] }

func (s *Shape) nvPr() *xmlquery.Node {
	return child(s.node, shapeNvPrName(s.node))
}

// Name returns the cNvPr name of the shape.
func (s *Shape) Name() string {
	name, _ := attr(child(s.nvPr(), "cNvPr"), "name")
	return name
}

// ID returns the cNvPr id of the shape, or 0.
func (s *Shape) ID() int {
	v, _ := attrInt(child(s.nvPr(), "cNvPr"), "id")
	return int(v)
}

// Description returns the alternative text of the shape.
func (s *Shape) Description() string {
	d, _ := attr(child(s.nvPr(), "cNvPr"), "descr")
	return d
}

// Placeholder returns the shape's placeholder identity. ok is false for
// shapes that are not placeholders.
func (s *Shape) Placeholder() (PlaceholderIdentity, bool) {
	ph := descend(s.nvPr(), "nvPr", "ph")
	if ph == nil {
		return PlaceholderIdentity{}, false
	}
	t, _ := attr(ph, "type")
	id := PlaceholderIdentity{Role: RoleOf(PlaceholderType(t))}
	if raw, ok := attr(ph, "idx"); ok {
		idx, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			log.Warningf("%s: ignoring placeholder idx %q on %q", s.part.name, raw, s.Name())
		} else {
			id.Index = uint32(idx)
			id.HasIndex = true
		}
	}
	return id, true
}

// spPr returns the shape properties element (p:spPr, or p:grpSpPr for
// groups). Graphic frames have none.
func (s *Shape) spPr() *xmlquery.Node {
	switch s.node.Data {
	case "grpSp":
		return child(s.node, "grpSpPr")
	case "graphicFrame":
		return nil
	}
	return child(s.node, "spPr")
}

// txBody returns the text body of the shape, if any.
func (s *Shape) txBody() *xmlquery.Node {
	return child(s.node, "txBody")
}

// ListStyle returns the shape's own list style (p:txBody/a:lstStyle).
func (s *Shape) ListStyle() ListStyle {
	return parseListStyle(descend(s.node, "txBody", "lstStyle"))
}

// Paragraphs returns the paragraphs of the shape's text body.
func (s *Shape) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, n := range elements(s.txBody()) {
		if n.Data == "p" {
			out = append(out, &Paragraph{shape: s, node: n})
		}
	}
	return out
}

// Text returns the shape's text with paragraphs separated by newlines.
func (s *Shape) Text() string {
	var parts []string
	for _, p := range s.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Children returns the member shapes of a group. Other shapes have none.
func (s *Shape) Children() []*Shape {
	if s.node.Data != "grpSp" {
		return nil
	}
	var out []*Shape
	for _, n := range elements(s.node) {
		if isShapeElement(n) {
			out = append(out, &Shape{part: s.part, node: n})
		}
	}
	return out
}

// ownFillRef returns the shape's own fill colour: the fill in its shape
// properties, else the colour of its style's fill reference. A fill that is
// not solid (noFill, gradFill, blipFill, pattFill) is still the shape's own
// choice, so it is reported as found with a zero reference, which never
// resolves.
func (s *Shape) ownFillRef() (ColorReference, bool) {
	if fill := firstChildOf(s.spPr(), fillElements...); fill != nil {
		if fill.Data == "grpFill" {
			return s.groupFillRef()
		}
		return fillColor(fill)
	}
	if ref := descend(s.node, "style", "fillRef"); ref != nil {
		return parseColorChoice(ref)
	}
	return ColorReference{}, false
}

// fillColor reads a fill element other than grpFill.
func fillColor(fill *xmlquery.Node) (ColorReference, bool) {
	if fill.Data != "solidFill" {
		return ColorReference{}, true
	}
	return parseColorChoice(fill)
}

// ownOutlineWidth returns a:ln/@w of the shape's own properties, in EMU.
func (s *Shape) ownOutlineWidth() (int64, bool) {
	return attrInt(child(s.spPr(), "ln"), "w")
}
