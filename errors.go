package pptdom

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. Use errors.Is to test for them; most are returned wrapped
// in a *MalformedError that names the offending node.
var (
	ErrMalformedFormula    = errors.New("malformed adjustment formula")
	ErrMissingGeometry     = errors.New("shape has no geometry")
	ErrNoTransform         = errors.New("no transform found in reference chain")
	ErrTooManyAdjustments  = errors.New("too many adjustment values for geometry")
	ErrNoAdjustments       = errors.New("geometry has no adjustments")
	ErrNilAdjustments      = errors.New("adjustment values must not be nil")
	ErrCustomGeometry      = errors.New("custom geometry has no preset adjustments")
	ErrUnsupportedGeometry = errors.New("unsupported preset geometry")
	ErrInvalidLevel        = errors.New("indent level out of range")
	ErrPartLink            = errors.New("invalid part link")
	ErrNotFound            = errors.New("not found")
	ErrInvalidValue        = errors.New("value out of range")
)

// MalformedError reports a document node that does not have the shape the
// format requires.
type MalformedError struct {
	Part string // part name, e.g. ppt/slides/slide1.xml
	Path string // node path inside the part
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Part, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Part, e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// malformed builds a stack-carrying *MalformedError for a node of part p.
func malformed(p *Part, path string, err error) error {
	name := ""
	if p != nil {
		name = p.name
	}
	return errors.WithStack(&MalformedError{Part: name, Path: path, Err: err})
}
