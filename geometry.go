package pptdom

import (
	"math"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
)

// GeometryType is a preset geometry name (a:prstGeom@prst).
type GeometryType string

const (
	GeometryRectangle      GeometryType = "rect"
	GeometryEllipse        GeometryType = "ellipse"
	GeometryDiamond        GeometryType = "diamond"
	GeometryRtTriangle     GeometryType = "rtTriangle"
	GeometryRoundedRect    GeometryType = "roundRect"
	GeometryRound1Rect     GeometryType = "round1Rect"
	GeometrySnip1Rect      GeometryType = "snip1Rect"
	GeometryRound2SameRect GeometryType = "round2SameRect"
	GeometryRound2DiagRect GeometryType = "round2DiagRect"
	GeometrySnip2SameRect  GeometryType = "snip2SameRect"
	GeometrySnip2DiagRect  GeometryType = "snip2DiagRect"
	GeometrySnipRoundRect  GeometryType = "snipRoundRect"

	// GeometryCustom stands for a:custGeom, which has no preset name.
	GeometryCustom GeometryType = "custGeom"
)

const (
	// adjustmentScale converts formula units to a 0-100 percentage.
	adjustmentScale = 500
	// DefaultCornerSize is the roundedness PowerPoint applies when a corner
	// geometry carries no adjustment entry.
	DefaultCornerSize = 35.0
)

var (
	noAdjustments  = []string{}
	oneAdjustment  = []string{"adj"}
	twoAdjustments = []string{"adj1", "adj2"}
)

// adjustmentNames maps each supported preset to the names of its
// adjustment guides.
var adjustmentNames = map[GeometryType][]string{
	GeometryRectangle:      noAdjustments,
	GeometryEllipse:        noAdjustments,
	GeometryDiamond:        noAdjustments,
	GeometryRtTriangle:     noAdjustments,
	GeometryRoundedRect:    oneAdjustment,
	GeometryRound1Rect:     oneAdjustment,
	GeometrySnip1Rect:      oneAdjustment,
	GeometryRound2SameRect: twoAdjustments,
	GeometryRound2DiagRect: twoAdjustments,
	GeometrySnip2SameRect:  twoAdjustments,
	GeometrySnip2DiagRect:  twoAdjustments,
	GeometrySnipRoundRect:  twoAdjustments,
}

// AdjustmentNames returns the adjustment guide names a geometry expects.
func AdjustmentNames(kind GeometryType) ([]string, error) {
	if kind == GeometryCustom {
		return nil, errors.WithStack(ErrCustomGeometry)
	}
	names, ok := adjustmentNames[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedGeometry, "%q", kind)
	}
	return names, nil
}

// AdjustmentEntry is one a:gd guide of an a:avLst.
type AdjustmentEntry struct {
	Name    string
	Formula string
}

// AdjustmentList is an ordered a:avLst.
type AdjustmentList []AdjustmentEntry

func (l AdjustmentList) index(name string) int {
	for i, e := range l {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// ParseFormula parses an adjustment formula of the form "val N", where N is
// a decimal integer with an optional leading minus sign. Nothing else is
// accepted, not even surrounding whitespace.
func ParseFormula(fmla string) (int64, error) {
	rest, ok := strings.CutPrefix(fmla, "val ")
	if !ok || strings.HasPrefix(rest, "+") {
		return 0, errors.Wrapf(ErrMalformedFormula, "%q", fmla)
	}
	v, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedFormula, "%q", fmla)
	}
	return v, nil
}

// FormatFormula renders v as an adjustment formula.
func FormatFormula(v int64) string {
	return "val " + strconv.FormatInt(v, 10)
}

// DecodeAdjustments returns the adjustments a geometry expects, as
// percentages, in guide order. Missing guides decode to DefaultCornerSize.
// Guides the geometry does not use are ignored.
func DecodeAdjustments(kind GeometryType, list AdjustmentList) ([]float64, error) {
	names, err := AdjustmentNames(kind)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(names))
	for i, name := range names {
		j := list.index(name)
		if j < 0 {
			out[i] = DefaultCornerSize
			continue
		}
		v, err := ParseFormula(list[j].Formula)
		if err != nil {
			return nil, errors.Wrapf(err, "guide %s", name)
		}
		out[i] = float64(v) / adjustmentScale
	}
	return out, nil
}

// EncodeAdjustments writes percentages into a copy of existing. values may
// be shorter than the geometry expects; guides past its end keep their
// existing formula or are created as "val 0". Entries of existing that the
// geometry does not use are kept in place.
func EncodeAdjustments(kind GeometryType, values []float64, existing AdjustmentList) (AdjustmentList, error) {
	if values == nil {
		return nil, errors.WithStack(ErrNilAdjustments)
	}
	names, err := AdjustmentNames(kind)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		if len(values) > 0 {
			return nil, errors.Wrapf(ErrNoAdjustments, "%q", kind)
		}
		return append(AdjustmentList{}, existing...), nil
	}
	if len(values) > len(names) {
		return nil, errors.Wrapf(ErrTooManyAdjustments, "%q takes %d, got %d", kind, len(names), len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(math.Round(v*adjustmentScale)) >= math.MaxInt64 {
			return nil, errors.Wrapf(ErrInvalidValue, "adjustment %v", v)
		}
	}

	out := append(AdjustmentList{}, existing...)
	for i, name := range names {
		j := out.index(name)
		switch {
		case i < len(values):
			fmla := FormatFormula(int64(math.Round(values[i] * adjustmentScale)))
			if j < 0 {
				out = append(out, AdjustmentEntry{Name: name, Formula: fmla})
			} else {
				out[j].Formula = fmla
			}
		case j < 0:
			out = append(out, AdjustmentEntry{Name: name, Formula: FormatFormula(0)})
		}
	}
	return out, nil
}

// geometryNode returns the shape's a:prstGeom or a:custGeom.
func (s *Shape) geometryNode() (*xmlquery.Node, error) {
	spPr := s.spPr()
	if spPr == nil {
		return nil, malformed(s.part, nodePath(s.node), errors.Wrap(ErrMissingGeometry, "no shape properties"))
	}
	g := firstChildOf(spPr, "prstGeom", "custGeom")
	if g == nil {
		return nil, malformed(s.part, nodePath(spPr), ErrMissingGeometry)
	}
	return g, nil
}

func geometryOf(g *xmlquery.Node) GeometryType {
	if g.Data == "custGeom" {
		return GeometryCustom
	}
	prst, _ := attr(g, "prst")
	return GeometryType(prst)
}

func (s *Shape) ownGeometryType() (GeometryType, bool) {
	g := firstChildOf(s.spPr(), "prstGeom", "custGeom")
	if g == nil {
		return "", false
	}
	return geometryOf(g), true
}

// GeometryType returns the shape's own geometry.
func (s *Shape) GeometryType() (GeometryType, error) {
	g, err := s.geometryNode()
	if err != nil {
		return "", err
	}
	return geometryOf(g), nil
}

// SetGeometryType changes the shape's preset geometry. Switching to a
// different preset starts a fresh, empty adjustment list; setting the
// current preset again leaves the list alone.
func (s *Shape) SetGeometryType(kind GeometryType) error {
	if kind == GeometryCustom {
		return errors.WithStack(ErrCustomGeometry)
	}
	if kind == "" {
		return errors.Wrap(ErrUnsupportedGeometry, "empty preset name")
	}
	g, err := s.geometryNode()
	if err != nil {
		return err
	}
	if geometryOf(g) == kind {
		return nil
	}
	if g.Data == "custGeom" {
		prst := newElement("a", "prstGeom")
		replaceNode(g, prst)
		g = prst
	}
	setAttr(g, "prst", string(kind))
	if av := child(g, "avLst"); av != nil {
		removeChildren(av)
	} else {
		insertOrdered(g, newElement("a", "avLst"))
	}
	log.Debugf("%s: %q geometry set to %s", s.part.name, s.Name(), kind)
	s.part.touch()
	return nil
}

// presetGeometry returns the shape's a:prstGeom and its kind, failing for
// custom geometry.
func (s *Shape) presetGeometry() (*xmlquery.Node, GeometryType, error) {
	g, err := s.geometryNode()
	if err != nil {
		return nil, "", err
	}
	kind := geometryOf(g)
	if kind == GeometryCustom {
		return nil, kind, malformed(s.part, nodePath(g), ErrCustomGeometry)
	}
	return g, kind, nil
}

// readAdjustments reads a:avLst, reporting the first malformed guide.
func (s *Shape) readAdjustments(g *xmlquery.Node) (AdjustmentList, error) {
	var list AdjustmentList
	for _, gd := range elements(child(g, "avLst")) {
		if gd.Data != "gd" {
			continue
		}
		name, _ := attr(gd, "name")
		fmla, _ := attr(gd, "fmla")
		if _, err := ParseFormula(fmla); err != nil {
			return nil, malformed(s.part, nodePath(gd), err)
		}
		list = append(list, AdjustmentEntry{Name: name, Formula: fmla})
	}
	return list, nil
}

// Adjustments returns the shape's adjustment values as percentages.
func (s *Shape) Adjustments() ([]float64, error) {
	g, kind, err := s.presetGeometry()
	if err != nil {
		return nil, err
	}
	names, err := AdjustmentNames(kind)
	if err != nil {
		return nil, malformed(s.part, nodePath(g), err)
	}
	if len(names) == 0 {
		return nil, malformed(s.part, nodePath(g), errors.Wrapf(ErrNoAdjustments, "%q", kind))
	}
	list, err := s.readAdjustments(g)
	if err != nil {
		return nil, err
	}
	return DecodeAdjustments(kind, list)
}

// SetAdjustments writes adjustment percentages to the shape's own geometry.
// Existing guides are updated in place and missing ones created.
func (s *Shape) SetAdjustments(values []float64) error {
	g, kind, err := s.presetGeometry()
	if err != nil {
		return err
	}
	existing, err := s.readAdjustments(g)
	if err != nil {
		return err
	}
	list, err := EncodeAdjustments(kind, values, existing)
	if err != nil {
		return malformed(s.part, nodePath(g), err)
	}
	av := ensureChild(g, "a", "avLst")
	for _, e := range list {
		gd := guideNamed(av, e.Name)
		if gd == nil {
			gd = newElement("a", "gd")
			setAttr(gd, "name", e.Name)
			xmlquery.AddChild(av, gd)
		}
		setAttr(gd, "fmla", e.Formula)
	}
	s.part.touch()
	return nil
}

func guideNamed(av *xmlquery.Node, name string) *xmlquery.Node {
	for _, gd := range elements(av) {
		if n, _ := attr(gd, "name"); gd.Data == "gd" && n == name {
			return gd
		}
	}
	return nil
}

// CornerSize returns the first adjustment of a rounded or snipped
// rectangle, as a percentage.
func (s *Shape) CornerSize() (float64, error) {
	values, err := s.Adjustments()
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// SetCornerSize sets the first adjustment. Zero flattens the corner.
func (s *Shape) SetCornerSize(size float64) error {
	return s.SetAdjustments([]float64{size})
}
