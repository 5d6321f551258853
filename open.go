package pptdom

import (
	"io"
	"strings"
)

// Open reads a PPTX file from disk and returns a Presentation.
// This is a convenience wrapper around NewReader + Read.
func Open(path string) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.Read(path)
}

// ReadFrom reads a PPTX from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.ReadFromReader(r, size)
}

// Save writes the presentation to a PPTX file.
// This is a convenience wrapper around NewWriter + Save.
func (p *Presentation) Save(path string) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.Save(path)
}

// WriteTo writes the presentation to a writer in PPTX format.
func (p *Presentation) WriteTo(w io.Writer) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.WriteTo(w)
}

// Close releases resources held by the presentation.
// It clears internal references to allow garbage collection.
func (p *Presentation) Close() error {
	p.slides = nil
	p.parts = nil
	p.themes = nil
	p.raw = nil
	p.entries = nil
	return nil
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
