package pptdom

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

// ColorKind tags the variant of a ColorReference.
type ColorKind int

const (
	ColorKindRGB    ColorKind = iota + 1 // a:srgbClr, a:scrgbClr
	ColorKindScheme                      // a:schemeClr
	ColorKindSystem                      // a:sysClr
	ColorKindPreset                      // a:prstClr
)

// ColorModifier is a transform child of a colour element, e.g. a:shade.
// Val is in thousandths of a percent (100000 = 100%).
type ColorModifier struct {
	Name string
	Val  int64
}

// ColorReference is a colour as written in the document. Value holds the
// hex for RGB colours, the slot name for scheme colours, the last computed
// hex for system colours and the name for preset colours. The zero value
// stands for a fill with no single colour and never resolves.
type ColorReference struct {
	Kind      ColorKind
	Value     string
	Modifiers []ColorModifier
}

// RGBColor returns a reference to a literal RGB hex colour.
func RGBColor(hex string) ColorReference {
	return ColorReference{Kind: ColorKindRGB, Value: normalizeHex(hex)}
}

// SchemeColor returns a reference to a theme colour slot.
func SchemeColor(slot string) ColorReference {
	return ColorReference{Kind: ColorKindScheme, Value: slot}
}

// colorElements are the EG_ColorChoice elements, in schema order.
var colorElements = []string{"scrgbClr", "srgbClr", "hslClr", "sysClr", "schemeClr", "prstClr"}

// parseColorChoice reads the colour element inside a fill or reference
// container (a:solidFill, a:fillRef, a:buClr ...).
func parseColorChoice(container *xmlquery.Node) (ColorReference, bool) {
	n := firstChildOf(container, colorElements...)
	if n == nil {
		return ColorReference{}, false
	}
	var ref ColorReference
	switch n.Data {
	case "srgbClr":
		v, _ := attr(n, "val")
		ref = ColorReference{Kind: ColorKindRGB, Value: normalizeHex(v)}
	case "scrgbClr":
		r, _ := attrInt(n, "r")
		g, _ := attrInt(n, "g")
		b, _ := attrInt(n, "b")
		c := colorful.LinearRgb(float64(r)/100000, float64(g)/100000, float64(b)/100000)
		ref = ColorReference{Kind: ColorKindRGB, Value: hexOf(c)}
	case "hslClr":
		hue, _ := attrInt(n, "hue")
		sat, _ := attrInt(n, "sat")
		lum, _ := attrInt(n, "lum")
		c := colorful.Hsl(AngleToDegrees(hue), float64(sat)/100000, float64(lum)/100000)
		ref = ColorReference{Kind: ColorKindRGB, Value: hexOf(c)}
	case "sysClr":
		last, ok := attr(n, "lastClr")
		if !ok {
			name, _ := attr(n, "val")
			last = systemColorDefaults[name]
		}
		ref = ColorReference{Kind: ColorKindSystem, Value: normalizeHex(last)}
	case "schemeClr":
		v, _ := attr(n, "val")
		ref = ColorReference{Kind: ColorKindScheme, Value: v}
	case "prstClr":
		v, _ := attr(n, "val")
		ref = ColorReference{Kind: ColorKindPreset, Value: v}
	}
	for _, m := range elements(n) {
		val, ok := attrInt(m, "val")
		if !ok {
			continue
		}
		ref.Modifiers = append(ref.Modifiers, ColorModifier{Name: m.Data, Val: val})
	}
	return ref, true
}

var systemColorDefaults = map[string]string{
	"windowText": "000000",
	"window":     "FFFFFF",
	"btnText":    "000000",
	"btnFace":    "F0F0F0",
	"menuText":   "000000",
	"highlight":  "0078D7",
}

// Resolve returns the RGB hex of the reference as seen from part p, which
// supplies the colour map and theme for scheme colours. ok is false when a
// scheme colour cannot be resolved (no theme reachable, unknown slot, or
// the placeholder colour phClr).
func (c ColorReference) Resolve(p *Part) (string, bool) {
	var hex string
	switch c.Kind {
	case ColorKindRGB, ColorKindSystem:
		hex = c.Value
	case ColorKindScheme:
		h, ok := resolveSchemeColor(p, c.Value)
		if !ok {
			return "", false
		}
		hex = h
	case ColorKindPreset:
		h, ok := presetHex(c.Value)
		if !ok {
			return "", false
		}
		hex = h
	default:
		return "", false
	}
	if !isValidHex(hex) {
		return "", false
	}
	return applyModifiers(hex, c.Modifiers), true
}

// applyModifiers applies colour transforms in document order. shade and
// tint scale the RGB channels toward black or white; lumMod, lumOff and
// satMod act on HSL lightness and saturation.
func applyModifiers(hex string, mods []ColorModifier) string {
	if len(mods) == 0 {
		return hex
	}
	col, err := colorful.Hex("#" + hex)
	if err != nil {
		return hex
	}
	for _, m := range mods {
		f := float64(m.Val) / 100000
		switch m.Name {
		case "shade":
			col = colorful.Color{R: col.R * f, G: col.G * f, B: col.B * f}
		case "tint":
			col = colorful.Color{R: 1 - (1-col.R)*f, G: 1 - (1-col.G)*f, B: 1 - (1-col.B)*f}
		case "lumMod", "lumOff", "satMod":
			h, s, l := col.Hsl()
			switch m.Name {
			case "lumMod":
				l *= f
			case "lumOff":
				l += f
			case "satMod":
				s *= f
			}
			col = colorful.Hsl(h, clamp01(s), clamp01(l))
		default:
			log.Debugf("colour modifier %s ignored", m.Name)
		}
	}
	return hexOf(col.Clamped())
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func hexOf(c colorful.Color) string {
	return strings.ToUpper(strings.TrimPrefix(c.Clamped().Hex(), "#"))
}

var folder = cases.Fold()

// presetHex resolves an a:prstClr name. Preset names are the CSS colour
// names with "dk", "lt" and "med" abbreviations.
func presetHex(name string) (string, bool) {
	key := folder.String(name)
	rgba, ok := colornames.Map[key]
	if !ok {
		for abbr, full := range map[string]string{"dk": "dark", "lt": "light", "med": "medium"} {
			if strings.HasPrefix(key, abbr) {
				if rgba, ok = colornames.Map[full+key[len(abbr):]]; ok {
					break
				}
			}
		}
	}
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02X%02X%02X", rgba.R, rgba.G, rgba.B), true
}

func normalizeHex(s string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

// isValidHex checks that s is exactly 6 upper-case hex characters.
func isValidHex(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// ParseHexColor accepts "RRGGBB" or "#RRGGBB" in either case and returns
// the upper-case form.
func ParseHexColor(s string) (string, bool) {
	hex := normalizeHex(s)
	if !isValidHex(hex) {
		return "", false
	}
	return hex, true
}

// Font is a fully resolved set of run font properties.
type Font struct {
	Name  string
	Size  float64 // in points
	Bold  bool
	Color string // RGB hex, e.g. "4472C4"
}

// DefaultFont returns the document-level defaults applied when nothing in
// the reference chain specifies a property.
func DefaultFont() Font {
	return Font{
		Name:  "Calibri",
		Size:  18,
		Bold:  false,
		Color: "000000",
	}
}
