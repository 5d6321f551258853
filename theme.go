package pptdom

import (
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
)

// Scheme colour slot names as written in a:clrScheme.
const (
	SlotDark1             = "dk1"
	SlotLight1            = "lt1"
	SlotDark2             = "dk2"
	SlotLight2            = "lt2"
	SlotAccent1           = "accent1"
	SlotAccent2           = "accent2"
	SlotAccent3           = "accent3"
	SlotAccent4           = "accent4"
	SlotAccent5           = "accent5"
	SlotAccent6           = "accent6"
	SlotHyperlink         = "hlink"
	SlotFollowedHyperlink = "folHlink"
)

// schemeSlots lists the 12 theme slots in a:clrScheme order.
var schemeSlots = []string{
	SlotDark1, SlotLight1, SlotDark2, SlotLight2,
	SlotAccent1, SlotAccent2, SlotAccent3, SlotAccent4, SlotAccent5, SlotAccent6,
	SlotHyperlink, SlotFollowedHyperlink,
}

var slotAliases = map[string]string{
	"dark1":             SlotDark1,
	"light1":            SlotLight1,
	"dark2":             SlotDark2,
	"light2":            SlotLight2,
	"hyperlink":         SlotHyperlink,
	"followedHyperlink": SlotFollowedHyperlink,
}

// ColorScheme is the 12-slot colour table of a theme, as RGB hex values.
type ColorScheme struct {
	Name   string
	Colors map[string]string
}

// Slot returns the hex value of a slot. Descriptive names such as "dark1"
// are accepted alongside the XML names.
func (cs ColorScheme) Slot(name string) (string, bool) {
	if alias, ok := slotAliases[name]; ok {
		name = alias
	}
	hex, ok := cs.Colors[name]
	return hex, ok
}

// Theme is a parsed theme part.
type Theme struct {
	name string
	doc  *xmlquery.Node
}

// ParseTheme parses a theme part (a:theme).
func ParseTheme(name string, r io.Reader) (*Theme, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	root := rootElement(doc)
	if root == nil || root.Data != "theme" {
		return nil, malformed(&Part{name: name}, qname(root), errors.New("expected <a:theme> root"))
	}
	return &Theme{name: name, doc: doc}, nil
}

// Name returns the part name of the theme.
func (t *Theme) Name() string { return t.name }

// DisplayName returns the theme's name attribute.
func (t *Theme) DisplayName() string {
	n, _ := attr(rootElement(t.doc), "name")
	return n
}

func (t *Theme) clrScheme() *xmlquery.Node {
	return xmlquery.FindOne(t.doc, "//*[local-name()='themeElements']/*[local-name()='clrScheme']")
}

// ColorScheme reads the theme's colour scheme. It is re-read from the tree
// on every call.
func (t *Theme) ColorScheme() (ColorScheme, error) {
	scheme := t.clrScheme()
	if scheme == nil {
		return ColorScheme{}, malformed(&Part{name: t.name}, "a:theme/a:themeElements",
			errors.Wrap(ErrNotFound, "a:clrScheme"))
	}
	cs := ColorScheme{Colors: make(map[string]string, len(schemeSlots))}
	cs.Name, _ = attr(scheme, "name")
	for _, slot := range schemeSlots {
		if hex, ok := slotHex(child(scheme, slot)); ok {
			cs.Colors[slot] = hex
		}
	}
	return cs, nil
}

// slotHex reads a slot element: <a:srgbClr val=".."/> or
// <a:sysClr val="windowText" lastClr=".."/>.
func slotHex(slot *xmlquery.Node) (string, bool) {
	ref, ok := parseColorChoice(slot)
	if !ok || (ref.Kind != ColorKindRGB && ref.Kind != ColorKindSystem) {
		return "", false
	}
	if !isValidHex(ref.Value) {
		return "", false
	}
	return applyModifiers(ref.Value, ref.Modifiers), true
}

// ResolveSlot returns the hex value of a theme colour slot.
func (t *Theme) ResolveSlot(name string) (string, bool) {
	if alias, ok := slotAliases[name]; ok {
		name = alias
	}
	scheme := t.clrScheme()
	if scheme == nil {
		return "", false
	}
	return slotHex(child(scheme, name))
}

// MajorLatinFont returns the heading typeface of the theme's font scheme.
func (t *Theme) MajorLatinFont() string {
	return t.latinFont("majorFont")
}

// MinorLatinFont returns the body typeface of the theme's font scheme.
func (t *Theme) MinorLatinFont() string {
	return t.latinFont("minorFont")
}

func (t *Theme) latinFont(which string) string {
	fs := xmlquery.FindOne(t.doc, "//*[local-name()='fontScheme']")
	face, _ := attr(descend(fs, which, "latin"), "typeface")
	return face
}

// resolveSchemeColor maps a scheme colour name through the colour map in
// effect for p (tx1 -> dk1 and so on) and looks it up in p's theme.
func resolveSchemeColor(p *Part, name string) (string, bool) {
	if name == "phClr" || p == nil {
		return "", false
	}
	if mapping := p.colorMapping(); mapping != nil {
		if mapped, ok := attr(mapping, name); ok {
			name = mapped
		}
	}
	switch name {
	case "tx1":
		name = SlotDark1
	case "bg1":
		name = SlotLight1
	case "tx2":
		name = SlotDark2
	case "bg2":
		name = SlotLight2
	}
	theme := p.Theme()
	if theme == nil {
		return "", false
	}
	return theme.ResolveSlot(name)
}

// resolveThemeFont replaces +mj-lt and +mn-lt typeface references with the
// theme's heading and body fonts.
func resolveThemeFont(p *Part, face string) (string, bool) {
	switch face {
	case "+mj-lt", "+mn-lt":
	default:
		return face, face != ""
	}
	if p == nil || p.Theme() == nil {
		return "", false
	}
	var resolved string
	if face == "+mj-lt" {
		resolved = p.Theme().MajorLatinFont()
	} else {
		resolved = p.Theme().MinorLatinFont()
	}
	return resolved, resolved != ""
}
