package pptdom

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestColorScheme(t *testing.T) {
	d := newDeck(t, "")
	cs, err := d.theme.ColorScheme()
	if err != nil {
		t.Fatalf("ColorScheme() error: %v", err)
	}
	want := map[string]string{
		"dk1": "000000", "lt1": "FFFFFF", "dk2": "44546A", "lt2": "E7E6E6",
		"accent1": "4472C4", "accent2": "ED7D31", "accent3": "A5A5A5",
		"accent4": "FFC000", "accent5": "5B9BD5", "accent6": "70AD47",
		"hlink": "0563C1", "folHlink": "954F72",
	}
	if diff := cmp.Diff(want, cs.Colors); diff != "" {
		t.Errorf("ColorScheme() mismatch (-want +got):\n%s", diff)
	}
	if cs.Name != "Office" {
		t.Errorf("Name = %q, want Office", cs.Name)
	}
	if hex, ok := cs.Slot("followedHyperlink"); !ok || hex != "954F72" {
		t.Errorf("Slot(followedHyperlink) = %q, %v", hex, ok)
	}
}

func TestResolveSlot(t *testing.T) {
	d := newDeck(t, "")
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"accent1", "4472C4", true},
		{"dark1", "000000", true},
		{"light2", "E7E6E6", true},
		{"hyperlink", "0563C1", true},
		{"accent9", "", false},
	}
	for _, tt := range tests {
		got, ok := d.theme.ResolveSlot(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveSlot(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestThemeReadsLiveTree(t *testing.T) {
	d := newDeck(t, "")
	n := d.theme.clrScheme()
	setAttr(descend(n, "accent1", "srgbClr"), "val", "112233")
	if hex, _ := d.theme.ResolveSlot("accent1"); hex != "112233" {
		t.Errorf("ResolveSlot after edit = %q, want 112233", hex)
	}
}

func TestThemeFonts(t *testing.T) {
	d := newDeck(t, "")
	if got := d.theme.MajorLatinFont(); got != "Calibri Light" {
		t.Errorf("MajorLatinFont() = %q", got)
	}
	if got := d.theme.MinorLatinFont(); got != "Calibri" {
		t.Errorf("MinorLatinFont() = %q", got)
	}
	if got := d.theme.DisplayName(); got != "Office Theme" {
		t.Errorf("DisplayName() = %q", got)
	}
}

func TestParseThemeErrors(t *testing.T) {
	_, err := ParseTheme("ppt/theme/bad.xml", strings.NewReader(`<a:sld xmlns:a="x"/>`))
	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("ParseTheme() error = %v, want *MalformedError", err)
	}
	if me.Part != "ppt/theme/bad.xml" {
		t.Errorf("Part = %q", me.Part)
	}

	empty, err := ParseTheme("t.xml", strings.NewReader(`<a:theme xmlns:a="x"/>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := empty.ColorScheme(); !errors.Is(err, ErrNotFound) {
		t.Errorf("ColorScheme() error = %v, want ErrNotFound", err)
	}
}

func TestColorMapOverride(t *testing.T) {
	src := strings.Replace(slideXML, `<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`,
		`<p:clrMapOvr><a:overrideClrMapping bg1="dk1" tx1="lt1" bg2="dk2" tx2="lt2" accent1="accent2" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:clrMapOvr>`, 1)
	d := newDeck(t, src)

	if hex, _ := SchemeColor("tx1").Resolve(d.slide); hex != "FFFFFF" {
		t.Errorf("tx1 on slide = %q, want FFFFFF", hex)
	}
	if hex, _ := SchemeColor("tx1").Resolve(d.layout); hex != "000000" {
		t.Errorf("tx1 on layout = %q, want 000000", hex)
	}

	run := firstRun(t, shapeT(t, d.slide, "Content 2"), 0)
	if hex, _ := run.ColorHex(); hex != "ED7D31" {
		t.Errorf("ColorHex() = %q, want ED7D31 through the override", hex)
	}
}

func TestSchemeColorWithoutTheme(t *testing.T) {
	p := parsePartT(t, "ppt/slides/slide1.xml", LevelSlide, slideXML)
	if _, ok := SchemeColor("accent1").Resolve(p); ok {
		t.Error("scheme colour resolved without a reachable theme")
	}
	if _, ok := SchemeColor("phClr").Resolve(newDeck(t, "").slide); ok {
		t.Error("phClr should not resolve")
	}
}
