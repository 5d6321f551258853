package pptdom

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Validate checks that every slide's inherited properties can be resolved
// and returns an error describing all problems found, or nil.
func (p *Presentation) Validate() error {
	var errs []string

	if len(p.slides) == 0 {
		errs = append(errs, "presentation must have at least one slide")
	}

	for i, slide := range p.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		for _, e := range validateSlide(slide) {
			errs = append(errs, prefix+": "+e)
		}
	}

	for _, m := range p.Masters() {
		if m.Theme() == nil {
			errs = append(errs, m.name+": master has no theme")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Part) []string {
	var errs []string
	if s.Layout() == nil {
		errs = append(errs, "no slide layout")
	}
	for j, shape := range s.AllShapes() {
		prefix := fmt.Sprintf("shape %d (%s)", j+1, shape.Name())
		if shape.GetType() == ShapeTypeGroup {
			continue
		}
		if _, err := shape.EffectiveTransform(); err != nil {
			errs = append(errs, prefix+": "+err.Error())
		}
		if t, ok := shape.Transform(); ok && (t.Width < 0 || t.Height < 0) {
			errs = append(errs, prefix+": extents are negative")
		}
		errs = append(errs, validateGeometry(shape, prefix)...)
	}
	return errs
}

// validateGeometry reports malformed adjustment guides on presets the
// codec knows. Shapes without geometry, custom geometry and unknown presets
// are not errors here.
func validateGeometry(s *Shape, prefix string) []string {
	kind, ok := s.ownGeometryType()
	if !ok || kind == GeometryCustom {
		return nil
	}
	names, err := AdjustmentNames(kind)
	if err != nil || len(names) == 0 {
		return nil
	}
	if _, err := s.Adjustments(); err != nil {
		return []string{prefix + ": " + err.Error()}
	}
	return nil
}
