package pptdom

import (
	"math"
	"strconv"

	"github.com/antchfx/xmlquery"
)

// Transform is a shape's position, size, rotation and flip. Lengths are in
// EMU; rotation is in degrees clockwise.
type Transform struct {
	OffsetX  int64
	OffsetY  int64
	Width    int64
	Height   int64
	Rotation float64
	FlipH    bool
	FlipV    bool
}

// xfrm returns the transform element of the shape, or nil.
func (s *Shape) xfrm() *xmlquery.Node {
	if s.node.Data == "graphicFrame" {
		return child(s.node, "xfrm")
	}
	return child(s.spPr(), "xfrm")
}

// Transform returns the transform stored on the shape itself. ok is false
// unless both the offset and the extents are present.
func (s *Shape) Transform() (Transform, bool) {
	return parseXfrm(s.xfrm())
}

func parseXfrm(x *xmlquery.Node) (Transform, bool) {
	off, ext := child(x, "off"), child(x, "ext")
	if off == nil || ext == nil {
		return Transform{}, false
	}
	var t Transform
	t.OffsetX, _ = attrInt(off, "x")
	t.OffsetY, _ = attrInt(off, "y")
	t.Width, _ = attrInt(ext, "cx")
	t.Height, _ = attrInt(ext, "cy")
	if rot, ok := attrInt(x, "rot"); ok {
		t.Rotation = AngleToDegrees(rot)
	}
	t.FlipH, _ = attrBool(x, "flipH")
	t.FlipV, _ = attrBool(x, "flipV")
	return t, true
}

// EffectiveTransform returns the shape's own transform or, when the shape
// omits it, the transform of the nearest shape in its reference chain.
// Position and size have no safe default, so an exhausted chain is an error.
func (s *Shape) EffectiveTransform() (Transform, error) {
	if t, ok := firstInChain(s, (*Shape).Transform); ok {
		return t, nil
	}
	return Transform{}, malformed(s.part, nodePath(s.node), ErrNoTransform)
}

// SetTransform writes t to the shape's own transform element, creating it
// when needed. Referenced layout and master shapes are never touched.
func (s *Shape) SetTransform(t Transform) error {
	var x *xmlquery.Node
	if s.node.Data == "graphicFrame" {
		x = ensureChild(s.node, "p", "xfrm", "graphic", "extLst")
	} else {
		sp := s.spPr()
		if sp == nil {
			name := "spPr"
			if s.node.Data == "grpSp" {
				name = "grpSpPr"
			}
			sp = ensureChild(s.node, "p", name, "style", "txBody", "extLst")
		}
		x = ensureChild(sp, "a", "xfrm", "custGeom", "prstGeom", "noFill", "solidFill",
			"gradFill", "blipFill", "pattFill", "grpFill", "ln", "effectLst", "effectDag",
			"scene3d", "sp3d", "extLst")
	}

	off := ensureChild(x, "a", "off", "ext", "chOff", "chExt")
	setAttr(off, "x", strconv.FormatInt(t.OffsetX, 10))
	setAttr(off, "y", strconv.FormatInt(t.OffsetY, 10))
	ext := ensureChild(x, "a", "ext", "chOff", "chExt")
	setAttr(ext, "cx", strconv.FormatInt(t.Width, 10))
	setAttr(ext, "cy", strconv.FormatInt(t.Height, 10))

	if t.Rotation != 0 {
		setAttr(x, "rot", strconv.FormatInt(DegreesToAngle(t.Rotation), 10))
	} else {
		removeAttr(x, "rot")
	}
	setFlag(x, "flipH", t.FlipH)
	setFlag(x, "flipV", t.FlipV)
	s.part.touch()
	return nil
}

func setFlag(n *xmlquery.Node, name string, on bool) {
	if on {
		setAttr(n, name, "1")
	} else {
		removeAttr(n, name)
	}
}

// normalizeDegrees folds an angle into [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
