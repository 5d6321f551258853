package config

import (
	"fmt"
	"os"

	"github.com/VantageDataChat/pptdom"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Config is the pptinspect configuration.
type Config struct {
	// Defaults fill in run properties nothing in the document sets.
	Defaults pptdom.Font
	// Slides restricts output to these 1-based slide numbers. Empty means all.
	Slides []int
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Defaults: pptdom.DefaultFont()}
}

// Wants reports whether slide number n (1-based) passes the slide filter.
func (c *Config) Wants(n int) bool {
	if len(c.Slides) == 0 {
		return true
	}
	for _, s := range c.Slides {
		if s == n {
			return true
		}
	}
	return false
}

// Load parses an HCL config file. An empty path yields Default().
//
//	defaults {
//	  color      = "000000"
//	  font_size  = 18
//	  latin_font = "Calibri"
//	  bold       = false
//	}
//	slides = [1, 3]
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	file, diags := hclsyntax.ParseConfig(src, path, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	body := file.Body.(*hclsyntax.Body)

	if err := parseDefaults(body, &cfg.Defaults); err != nil {
		return nil, err
	}
	if err := parseSlides(body, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDefaults(body *hclsyntax.Body, font *pptdom.Font) error {
	for _, block := range body.Blocks {
		if block.Type != "defaults" {
			continue
		}
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return fmt.Errorf("parsing defaults: %s", diags.Error())
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("evaluating defaults.%s: %s", name, diags.Error())
			}
			var err error
			switch name {
			case "color":
				var hex string
				if err = gocty.FromCtyValue(val, &hex); err == nil {
					var ok bool
					if font.Color, ok = pptdom.ParseHexColor(hex); !ok {
						err = fmt.Errorf("invalid hex color %q", hex)
					}
				}
			case "font_size":
				err = gocty.FromCtyValue(val, &font.Size)
				if err == nil && font.Size <= 0 {
					err = fmt.Errorf("must be positive, got %g", font.Size)
				}
			case "latin_font":
				err = gocty.FromCtyValue(val, &font.Name)
			case "bold":
				err = gocty.FromCtyValue(val, &font.Bold)
			default:
				err = fmt.Errorf("unknown setting")
			}
			if err != nil {
				return fmt.Errorf("defaults.%s: %w", name, err)
			}
		}
		return nil
	}
	return nil
}

func parseSlides(body *hclsyntax.Body, cfg *Config) error {
	attr, ok := body.Attributes["slides"]
	if !ok {
		return nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("evaluating slides: %s", diags.Error())
	}
	if !val.CanIterateElements() {
		return fmt.Errorf("slides: expected a list of slide numbers")
	}
	for _, v := range val.AsValueSlice() {
		var n int
		if v.Type() != cty.Number {
			return fmt.Errorf("slides: expected a number, got %s", v.Type().FriendlyName())
		}
		if err := gocty.FromCtyValue(v, &n); err != nil {
			return fmt.Errorf("slides: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("slides: slide numbers start at 1, got %d", n)
		}
		cfg.Slides = append(cfg.Slides, n)
	}
	return nil
}
