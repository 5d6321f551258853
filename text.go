package pptdom

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
)

// Paragraph is a handle to one a:p element of a shape's text body.
type Paragraph struct {
	shape *Shape
	node  *xmlquery.Node
}

// Shape returns the shape that owns the paragraph.
func (p *Paragraph) Shape() *Shape { return p.shape }

// Level returns the paragraph's indent level, 1..9. a:pPr@lvl is stored
// zero-based and defaults to the first level.
func (p *Paragraph) Level() int {
	lvl, ok := attrInt(child(p.node, "pPr"), "lvl")
	if !ok {
		return 1
	}
	if lvl < 0 || lvl >= MaxIndentLevel {
		log.Warningf("%s: paragraph level %d out of range, using 1", p.shape.part.name, lvl)
		return 1
	}
	return int(lvl) + 1
}

// SetLevel sets the paragraph's indent level.
func (p *Paragraph) SetLevel(level int) error {
	if level < 1 || level > MaxIndentLevel {
		return errors.Wrapf(ErrInvalidLevel, "level %d", level)
	}
	pPr := ensureChild(p.node, "a", "pPr", "r", "br", "fld", "endParaRPr")
	if level == 1 {
		removeAttr(pPr, "lvl")
	} else {
		setAttr(pPr, "lvl", strconv.Itoa(level-1))
	}
	p.shape.part.touch()
	return nil
}

// Runs returns the text runs of the paragraph. Fields (a:fld) count as runs.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, n := range elements(p.node) {
		if n.Data == "r" || n.Data == "fld" {
			out = append(out, &Run{para: p, node: n})
		}
	}
	return out
}

// Text returns the paragraph text. Line breaks read as a vertical tab.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, n := range elements(p.node) {
		switch n.Data {
		case "r", "fld":
			sb.WriteString((&Run{para: p, node: n}).Text())
		case "br":
			sb.WriteByte('\v')
		}
	}
	return sb.String()
}

// Run is a handle to one a:r (or a:fld) element.
type Run struct {
	para *Paragraph
	node *xmlquery.Node
}

// Paragraph returns the paragraph that owns the run.
func (r *Run) Paragraph() *Paragraph { return r.para }

// Text returns the run's text.
func (r *Run) Text() string {
	t := child(r.node, "t")
	if t == nil {
		return ""
	}
	return t.InnerText()
}

// SetText replaces the run's text.
func (r *Run) SetText(text string) {
	t := ensureChild(r.node, "a", "t")
	removeChildren(t)
	xmlquery.AddChild(t, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	r.para.shape.part.touch()
}

func (r *Run) rPr() *xmlquery.Node { return child(r.node, "rPr") }

func (r *Run) ensureRPr() *xmlquery.Node {
	return ensureChild(r.node, "a", "rPr", "pPr", "t")
}

func (r *Run) own() IndentFontRecord { return parseFontRecord(r.rPr()) }

// ColorHex returns the effective text colour as RGB hex. ok is false when
// nothing in the run, the reference chain or the master role style sets a
// colour, or when the colour found cannot be resolved.
func (r *Run) ColorHex() (string, bool) {
	s := r.para.shape
	ref, ok := resolveFontProperty(s, r.own(), r.para.Level(), pickColor)
	if !ok {
		return "", false
	}
	hex, ok := ref.Resolve(s.part)
	if !ok {
		log.Debugf("%s: colour %v on %q did not resolve", s.part.name, ref, s.Name())
	}
	return hex, ok
}

// Bold returns the effective bold flag.
func (r *Run) Bold() (bool, bool) {
	return resolveFontProperty(r.para.shape, r.own(), r.para.Level(), pickBold)
}

// Size returns the effective font size in points.
func (r *Run) Size() (float64, bool) {
	sz, ok := resolveFontProperty(r.para.shape, r.own(), r.para.Level(), pickSize)
	if !ok {
		return 0, false
	}
	return FontSizeToPoints(sz), true
}

// LatinFont returns the effective latin typeface. Theme references
// (+mj-lt, +mn-lt) are resolved through the theme's font scheme.
func (r *Run) LatinFont() (string, bool) {
	s := r.para.shape
	face, ok := resolveFontProperty(s, r.own(), r.para.Level(), pickLatin)
	if !ok {
		return "", false
	}
	return resolveThemeFont(s.part, face)
}

// Font returns the effective font of the run, taking absent properties from
// defaults.
func (r *Run) Font(defaults Font) Font {
	f := defaults
	if v, ok := r.LatinFont(); ok {
		f.Name = v
	}
	if v, ok := r.Size(); ok {
		f.Size = v
	}
	if v, ok := r.Bold(); ok {
		f.Bold = v
	}
	if v, ok := r.ColorHex(); ok {
		f.Color = v
	}
	return f
}

// rPrFollowers lists the a:rPr children that come after the fill, in schema
// order.
var rPrFollowers = []string{
	"effectLst", "effectDag", "highlight", "uLnTx", "uLn", "uFillTx", "uFill",
	"latin", "ea", "cs", "sym", "hlinkClick", "hlinkMouseOver", "rtl", "extLst",
}

var fillElements = []string{"noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill"}

// SetBold sets the run's own bold flag.
func (r *Run) SetBold(bold bool) {
	v := "0"
	if bold {
		v = "1"
	}
	setAttr(r.ensureRPr(), "b", v)
	r.para.shape.part.touch()
}

// SetSize sets the run's own font size in points (1 to 4000).
func (r *Run) SetSize(points float64) error {
	sz := PointsToFontSize(points)
	if sz < 100 || sz > 400000 {
		return errors.Wrapf(ErrInvalidValue, "font size %gpt", points)
	}
	setAttr(r.ensureRPr(), "sz", strconv.FormatInt(sz, 10))
	r.para.shape.part.touch()
	return nil
}

// SetColorHex gives the run its own solid fill. Any other fill on the run
// is replaced.
func (r *Run) SetColorHex(s string) error {
	hex, ok := ParseHexColor(s)
	if !ok {
		return errors.Wrapf(ErrInvalidValue, "colour %q", s)
	}
	rPr := r.ensureRPr()
	for _, n := range elements(rPr) {
		for _, name := range fillElements {
			if n.Data == name {
				xmlquery.RemoveFromTree(n)
			}
		}
	}
	fill := newElement("a", "solidFill")
	clr := newElement("a", "srgbClr")
	setAttr(clr, "val", hex)
	xmlquery.AddChild(fill, clr)
	insertOrdered(rPr, fill, rPrFollowers...)
	r.para.shape.part.touch()
	return nil
}

// SetLatinFont sets the run's own latin typeface.
func (r *Run) SetLatinFont(face string) error {
	if face == "" {
		return errors.Wrap(ErrInvalidValue, "empty typeface")
	}
	latin := ensureChild(r.ensureRPr(), "a", "latin", "ea", "cs", "sym", "hlinkClick", "hlinkMouseOver", "rtl", "extLst")
	setAttr(latin, "typeface", face)
	r.para.shape.part.touch()
	return nil
}
