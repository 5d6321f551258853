package pptdom

import (
	"fmt"

	"github.com/antchfx/xmlquery"
)

// MaxIndentLevel is the deepest paragraph indent level a list style can
// describe. Levels are numbered from 1.
const MaxIndentLevel = 9

// IndentFontRecord holds the font properties a list style defines for one
// indent level. A nil field means the level does not specify it.
type IndentFontRecord struct {
	Color     *ColorReference
	Bold      *bool
	Size      *int64 // hundredths of a point
	LatinFont *string
}

// empty reports whether the record specifies nothing at all.
func (r IndentFontRecord) empty() bool {
	return r.Color == nil && r.Bold == nil && r.Size == nil && r.LatinFont == nil
}

// ListStyle is a level-indexed table of font records, parsed from
// a:lstStyle or one of the master's p:txStyles children.
type ListStyle struct {
	levels [MaxIndentLevel]*IndentFontRecord
}

// FontAt returns the record defined at exactly level. It does not look at
// neighbouring levels.
func (ls ListStyle) FontAt(level int) (IndentFontRecord, bool) {
	if level < 1 || level > MaxIndentLevel {
		return IndentFontRecord{}, false
	}
	rec := ls.levels[level-1]
	if rec == nil {
		return IndentFontRecord{}, false
	}
	return *rec, true
}

// Levels returns the indent levels the style defines, ascending.
func (ls ListStyle) Levels() []int {
	var out []int
	for i, rec := range ls.levels {
		if rec != nil {
			out = append(out, i+1)
		}
	}
	return out
}

// parseListStyle reads a:lvl1pPr..a:lvl9pPr/a:defRPr under n. A nil n yields
// an empty style.
func parseListStyle(n *xmlquery.Node) ListStyle {
	var ls ListStyle
	for i := range MaxIndentLevel {
		lvl := child(n, fmt.Sprintf("lvl%dpPr", i+1))
		if lvl == nil {
			continue
		}
		rec := parseFontRecord(child(lvl, "defRPr"))
		if rec.empty() {
			continue
		}
		ls.levels[i] = &rec
	}
	return ls
}

// parseFontRecord reads the font attributes of a text character properties
// element (a:rPr, a:defRPr, a:endParaRPr).
func parseFontRecord(rPr *xmlquery.Node) IndentFontRecord {
	var rec IndentFontRecord
	if rPr == nil {
		return rec
	}
	if b, ok := attrBool(rPr, "b"); ok {
		rec.Bold = &b
	}
	if sz, ok := attrInt(rPr, "sz"); ok {
		rec.Size = &sz
	}
	if c, ok := parseColorChoice(child(rPr, "solidFill")); ok {
		rec.Color = &c
	}
	if face, ok := attr(child(rPr, "latin"), "typeface"); ok && face != "" {
		rec.LatinFont = &face
	}
	return rec
}
