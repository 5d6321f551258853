package pptdom

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Writer is the interface for presentation writers.
type Writer interface {
	Save(path string) error
	WriteTo(w io.Writer) error
}

// WriterType represents the output format.
type WriterType string

const (
	WriterPowerPoint2007 WriterType = "PowerPoint2007"
)

// NewWriter creates a writer for the given format.
func NewWriter(p *Presentation, format WriterType) (Writer, error) {
	switch format {
	case WriterPowerPoint2007:
		return &PPTXWriter{presentation: p}, nil
	default:
		return nil, errors.Errorf("unsupported writer format: %s", format)
	}
}

// PPTXWriter writes a presentation back to PPTX. Entries are copied as
// read, except parts a setter has changed, which are serialised from their
// live tree.
type PPTXWriter struct {
	presentation *Presentation
}

// Save writes the presentation to a file.
func (w *PPTXWriter) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrap(err, "failed to create directory")
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}

	writeErr := w.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		// Attempt cleanup on write failure
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the presentation to a writer.
func (w *PPTXWriter) WriteTo(writer io.Writer) error {
	pres := w.presentation
	if pres == nil || pres.raw == nil {
		return errors.New("presentation is nil or closed")
	}

	zw := zip.NewWriter(writer)
	for _, name := range pres.entries {
		data := pres.raw[name]
		if part, ok := pres.parts[name]; ok && part.Dirty() {
			data = []byte(part.OutputXML())
			log.Debugf("rewriting %s", name)
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", name)
		}
		if _, err := fw.Write(data); err != nil {
			return errors.Wrapf(err, "failed to write %s", name)
		}
	}
	return zw.Close()
}
