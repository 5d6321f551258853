package pptdom

import "math"

// Group returns the group shape that directly contains s, or nil when s
// sits at the top of the shape tree.
func (s *Shape) Group() *Shape {
	parent := s.node.Parent
	if parent == nil || parent.Data != "grpSp" {
		return nil
	}
	return &Shape{part: s.part, node: parent}
}

// childSpace is a group's child coordinate system: the rectangle its
// members are laid out in (chOff/chExt), and where that rectangle lands in
// the group's own parent (off/ext).
type childSpace struct {
	outer            Transform
	chOffX, chOffY   int64
	chExtCX, chExtCY int64
}

func (s *Shape) childSpace() (childSpace, bool) {
	x := s.xfrm()
	outer, ok := parseXfrm(x)
	if !ok {
		return childSpace{}, false
	}
	cs := childSpace{outer: outer}
	if off := child(x, "chOff"); off != nil {
		cs.chOffX, _ = attrInt(off, "x")
		cs.chOffY, _ = attrInt(off, "y")
	}
	cs.chExtCX, cs.chExtCY = outer.Width, outer.Height
	if ext := child(x, "chExt"); ext != nil {
		cs.chExtCX, _ = attrInt(ext, "cx")
		cs.chExtCY, _ = attrInt(ext, "cy")
	}
	return cs, true
}

// apply maps t from child coordinates into the group's parent coordinates.
// A zero child extent collapses that axis onto the group's offset.
func (cs childSpace) apply(t Transform) Transform {
	sx, sy := 0.0, 0.0
	if cs.chExtCX != 0 {
		sx = float64(cs.outer.Width) / float64(cs.chExtCX)
	}
	if cs.chExtCY != 0 {
		sy = float64(cs.outer.Height) / float64(cs.chExtCY)
	}
	out := t
	out.OffsetX = cs.outer.OffsetX + int64(math.Round(float64(t.OffsetX-cs.chOffX)*sx))
	out.OffsetY = cs.outer.OffsetY + int64(math.Round(float64(t.OffsetY-cs.chOffY)*sy))
	out.Width = int64(math.Round(float64(t.Width) * sx))
	out.Height = int64(math.Round(float64(t.Height) * sy))
	out.Rotation = normalizeDegrees(t.Rotation + cs.outer.Rotation)
	out.FlipH = t.FlipH != cs.outer.FlipH
	out.FlipV = t.FlipV != cs.outer.FlipV
	return out
}

// SlideTransform returns the shape's effective transform in slide
// coordinates, mapping it out through every enclosing group. Group rotation
// is added to the shape's own rotation about the shape's centre; the
// offset is not rotated.
func (s *Shape) SlideTransform() (Transform, error) {
	t, err := s.EffectiveTransform()
	if err != nil {
		return Transform{}, err
	}
	for g := s.Group(); g != nil; g = g.Group() {
		cs, ok := g.childSpace()
		if !ok {
			return Transform{}, malformed(s.part, nodePath(g.node), ErrNoTransform)
		}
		t = cs.apply(t)
	}
	return t, nil
}

// groupFillRef resolves <a:grpFill/>: the fill of the nearest enclosing
// group that defines one.
func (s *Shape) groupFillRef() (ColorReference, bool) {
	for g := s.Group(); g != nil; g = g.Group() {
		fill := firstChildOf(g.spPr(), fillElements...)
		switch {
		case fill == nil:
			return ColorReference{}, false
		case fill.Data == "grpFill":
			continue
		}
		return fillColor(fill)
	}
	return ColorReference{}, false
}
