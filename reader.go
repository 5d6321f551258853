package pptdom

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Reader is the interface for presentation readers.
type Reader interface {
	Read(path string) (*Presentation, error)
	ReadFromReader(r io.ReaderAt, size int64) (*Presentation, error)
}

// ReaderType represents the input format.
type ReaderType string

const (
	ReaderPowerPoint2007 ReaderType = "PowerPoint2007"
)

// NewReader creates a reader for the given format.
func NewReader(format ReaderType) (Reader, error) {
	switch format {
	case ReaderPowerPoint2007:
		return &PPTXReader{}, nil
	default:
		return nil, errors.Errorf("unsupported reader format: %s", format)
	}
}

// PPTXReader reads PPTX files.
type PPTXReader struct{}

// Read reads a presentation from a file path.
func (r *PPTXReader) Read(name string) (*Presentation, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	return r.ReadFromReader(f, info.Size())
}

// ReadFromReader reads a presentation from an io.ReaderAt.
func (r *PPTXReader) ReadFromReader(reader io.ReaderAt, size int64) (*Presentation, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, errors.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open zip")
	}

	if len(zr.File) > maxZipEntries {
		return nil, errors.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	pres := &Presentation{
		raw:    make(map[string][]byte, len(zr.File)),
		parts:  make(map[string]*Part),
		themes: make(map[string]*Theme),
	}

	var total int64
	for _, f := range zr.File {
		data, err := readZipEntry(f)
		if err != nil {
			return nil, err
		}
		total += int64(len(data))
		if total > maxZipTotalSize {
			return nil, errors.Errorf("zip content exceeds maximum allowed size (%d bytes)", maxZipTotalSize)
		}
		pres.entries = append(pres.entries, f.Name)
		pres.raw[f.Name] = data
	}

	presPath := r.presentationPath(pres)
	slideRels, err := r.readSlideList(pres, presPath)
	if err != nil {
		return nil, err
	}

	presRels, err := r.readRelationships(pres, relsPathFor(presPath))
	if err != nil {
		return nil, err
	}

	for _, relID := range slideRels {
		rel, ok := findRel(presRels, func(rel xmlRelForRead) bool { return rel.ID == relID })
		if !ok {
			log.Warningf("%s: slide relationship %s not found", presPath, relID)
			continue
		}
		target := resolveRelativePath(path.Dir(presPath), rel.Target)

		slide, err := r.loadPart(pres, target, LevelSlide)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read slide %s", target)
		}
		pres.slides = append(pres.slides, slide)
	}

	return pres, nil
}

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
// This prevents zip bomb attacks. 50 MB is generous for any legitimate PPTX part.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

func readZipEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, errors.Errorf("file %s exceeds maximum allowed size (%d bytes)", f.Name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s in zip", f.Name)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s from zip", f.Name)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, errors.Errorf("file %s actual size exceeds maximum allowed size", f.Name)
	}
	return data, nil
}

func (p *Presentation) file(name string) ([]byte, error) {
	data, ok := p.raw[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "file %s in zip", name)
	}
	return data, nil
}

// --- Relationship reading ---

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

func (r *PPTXReader) readRelationships(pres *Presentation, name string) ([]xmlRelForRead, error) {
	data, err := pres.file(name)
	if err != nil {
		return nil, nil // relationships file may not exist
	}

	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, errors.Wrapf(err, "failed to parse relationships %s", name)
	}
	return rels.Relationships, nil
}

func findRel(rels []xmlRelForRead, match func(xmlRelForRead) bool) (xmlRelForRead, bool) {
	for _, rel := range rels {
		if rel.TargetMode != "External" && match(rel) {
			return rel, true
		}
	}
	return xmlRelForRead{}, false
}

func relOfType(typ string) func(xmlRelForRead) bool {
	return func(rel xmlRelForRead) bool { return rel.Type == typ }
}

// relsPathFor returns the relationships part of a part,
// e.g. ppt/slides/_rels/slide1.xml.rels.
func relsPathFor(name string) string {
	return path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
}

// presentationPath finds the main document through the package
// relationships, defaulting to ppt/presentation.xml.
func (r *PPTXReader) presentationPath(pres *Presentation) string {
	rels, _ := r.readRelationships(pres, "_rels/.rels")
	if rel, ok := findRel(rels, relOfType(relTypeOfficeDoc)); ok {
		return strings.TrimPrefix(rel.Target, "/")
	}
	return "ppt/presentation.xml"
}

type xmlSlideIDForRead struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xmlPresentationForRead struct {
	XMLName xml.Name            `xml:"presentation"`
	Slides  []xmlSlideIDForRead `xml:"sldIdLst>sldId"`
}

// readSlideList returns the relationship ids of the slides, in order.
func (r *PPTXReader) readSlideList(pres *Presentation, name string) ([]string, error) {
	data, err := pres.file(name)
	if err != nil {
		return nil, err
	}
	var doc xmlPresentationForRead
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", name)
	}
	ids := make([]string, 0, len(doc.Slides))
	for _, s := range doc.Slides {
		ids = append(ids, s.RID)
	}
	return ids, nil
}

// loadPart parses a slide, layout or master and, recursively, the parts it
// references. Parts shared between slides are parsed once.
func (r *PPTXReader) loadPart(pres *Presentation, name string, level ReferenceLevel) (*Part, error) {
	if part, ok := pres.parts[name]; ok {
		if part.level != level {
			return nil, errors.Wrapf(ErrPartLink, "%s is a %s, not a %s", name, part.level, level)
		}
		return part, nil
	}
	data, err := pres.file(name)
	if err != nil {
		return nil, err
	}
	part, err := ParsePart(name, level, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	pres.parts[name] = part

	rels, err := r.readRelationships(pres, relsPathFor(name))
	if err != nil {
		return nil, err
	}
	dir := path.Dir(name)

	var nextType string
	switch level {
	case LevelSlide:
		nextType = relTypeSlideLayout
	case LevelLayout:
		nextType = relTypeSlideMaster
	case LevelMaster:
		rel, ok := findRel(rels, relOfType(relTypeTheme))
		if !ok {
			log.Warningf("%s: master has no theme", name)
			return part, nil
		}
		theme, err := r.loadTheme(pres, resolveRelativePath(dir, rel.Target))
		if err != nil {
			return nil, err
		}
		return part, part.SetTheme(theme)
	}

	rel, ok := findRel(rels, relOfType(nextType))
	if !ok {
		log.Warningf("%s: no %s relationship", name, level+1)
		return part, nil
	}
	next, err := r.loadPart(pres, resolveRelativePath(dir, rel.Target), level+1)
	if err != nil {
		return nil, err
	}
	return part, part.Link(next)
}

func (r *PPTXReader) loadTheme(pres *Presentation, name string) (*Theme, error) {
	if t, ok := pres.themes[name]; ok {
		return t, nil
	}
	data, err := pres.file(name)
	if err != nil {
		return nil, err
	}
	t, err := ParseTheme(name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	pres.themes[name] = t
	return t, nil
}

func resolveRelativePath(base, rel string) string {
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(rel, "/")
	}

	baseParts := strings.Split(base, "/")
	relParts := strings.Split(rel, "/")

	result := make([]string, 0, len(baseParts)+len(relParts))
	result = append(result, baseParts...)

	for _, part := range relParts {
		if part == ".." {
			if len(result) > 0 {
				result = result[:len(result)-1]
			}
		} else if part != "." && part != "" {
			result = append(result, part)
		}
	}

	resolved := strings.Join(result, "/")

	// Security: ensure resolved path stays within the ppt/ directory to prevent
	// path traversal attacks via malicious relationship targets.
	if !strings.HasPrefix(resolved, "ppt/") && !strings.HasPrefix(resolved, "docProps/") && resolved != "[Content_Types].xml" && !strings.HasPrefix(resolved, "_rels/") {
		return "ppt/" + resolved
	}

	return resolved
}
