package pptdom

import "iter"

// LayoutMatch returns the layout placeholder a slide placeholder inherits
// from. It is nil for shapes outside slides, for non-placeholders and when
// the layout has no matching placeholder.
func (s *Shape) LayoutMatch() *Shape {
	if s.part.level != LevelSlide {
		return nil
	}
	id, ok := s.Placeholder()
	if !ok {
		return nil
	}
	layout := s.part.Layout()
	if layout == nil {
		return nil
	}
	return MatchPlaceholder(id, layout.Placeholders(), LevelLayout)
}

// MasterMatch returns the master placeholder a slide or layout placeholder
// inherits from. For a slide shape the layout match's identity is used when
// there is one, else the slide shape's own.
func (s *Shape) MasterMatch() *Shape {
	if s.part.level == LevelMaster {
		return nil
	}
	src := s
	if lm := s.LayoutMatch(); lm != nil {
		src = lm
	}
	return src.matchIn(s.part.Master())
}

func (s *Shape) matchIn(master *Part) *Shape {
	if master == nil {
		return nil
	}
	id, ok := s.Placeholder()
	if !ok {
		return nil
	}
	return MatchPlaceholder(id, master.Placeholders(), LevelMaster)
}

// ReferenceChain yields the shape followed by the shapes it inherits from,
// nearest first: the layout match (slide shapes only) and the master match.
// Missing links are skipped. Non-placeholders yield only themselves.
func (s *Shape) ReferenceChain() iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		if !yield(s) {
			return
		}
		if s.part.level == LevelMaster {
			return
		}
		if _, ok := s.Placeholder(); !ok {
			return
		}
		src := s
		if lm := s.LayoutMatch(); lm != nil {
			if !yield(lm) {
				return
			}
			src = lm
		}
		if mm := src.matchIn(s.part.Master()); mm != nil {
			yield(mm)
		}
	}
}

// firstInChain returns the first value pick finds along the shape's
// reference chain.
func firstInChain[T any](s *Shape, pick func(*Shape) (T, bool)) (T, bool) {
	for sh := range s.ReferenceChain() {
		if v, ok := pick(sh); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// inheritedRole is the role of the nearest identity in the chain that
// declares one. Untyped slide placeholders get their role from the layout
// or master shape they match.
func (s *Shape) inheritedRole() (PlaceholderRole, bool) {
	return firstInChain(s, func(sh *Shape) (PlaceholderRole, bool) {
		id, ok := sh.Placeholder()
		return id.Role, ok && id.Role != RoleNone
	})
}

// roleStyled reports whether the master keeps a dedicated text style for
// the role.
func roleStyled(role PlaceholderRole) bool {
	switch role {
	case RoleTitle, RoleCenteredTitle, RoleBody, RoleSubTitle:
		return true
	}
	return false
}

// resolveFontProperty finds one font property for text at level inside s.
// own is the run's character properties. The search order is own, then
// each chain shape's list style at level, then the master's role style.
func resolveFontProperty[T any](s *Shape, own IndentFontRecord, level int, pick func(IndentFontRecord) (T, bool)) (T, bool) {
	if v, ok := pick(own); ok {
		return v, true
	}
	v, ok := firstInChain(s, func(sh *Shape) (T, bool) {
		rec, ok := sh.ListStyle().FontAt(level)
		if !ok {
			var zero T
			return zero, false
		}
		return pick(rec)
	})
	if ok {
		return v, true
	}
	if _, isPlaceholder := s.Placeholder(); !isPlaceholder {
		return v, false
	}
	role, ok := s.inheritedRole()
	if !ok || !roleStyled(role) {
		return v, false
	}
	if rec, ok := s.part.RoleStyle(role).FontAt(level); ok {
		return pick(rec)
	}
	return v, false
}

func pickColor(r IndentFontRecord) (ColorReference, bool) {
	if r.Color == nil {
		return ColorReference{}, false
	}
	return *r.Color, true
}

func pickBold(r IndentFontRecord) (bool, bool) {
	if r.Bold == nil {
		return false, false
	}
	return *r.Bold, true
}

func pickSize(r IndentFontRecord) (int64, bool) {
	if r.Size == nil {
		return 0, false
	}
	return *r.Size, true
}

func pickLatin(r IndentFontRecord) (string, bool) {
	if r.LatinFont == nil {
		return "", false
	}
	return *r.LatinFont, true
}

// FillHex returns the effective solid fill colour of the shape: its own
// fill, else the fill of the nearest shape in its chain. Scheme colours are
// resolved against the theme of the shape's own part.
func (s *Shape) FillHex() (string, bool) {
	ref, ok := firstInChain(s, (*Shape).ownFillRef)
	if !ok {
		return "", false
	}
	return ref.Resolve(s.part)
}

// OutlineWidth returns the effective outline width in EMU.
func (s *Shape) OutlineWidth() (int64, bool) {
	return firstInChain(s, (*Shape).ownOutlineWidth)
}

// EffectiveGeometryType returns the preset geometry of the shape or of the
// nearest shape in its chain that declares one.
func (s *Shape) EffectiveGeometryType() (GeometryType, bool) {
	return firstInChain(s, (*Shape).ownGeometryType)
}
