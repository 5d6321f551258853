package pptdom

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// XML namespace constants
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)

// child returns the first element child of n with the given local name.
func child(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

// descend follows a chain of local names from n, returning nil as soon as a
// step is missing.
func descend(n *xmlquery.Node, path ...string) *xmlquery.Node {
	for _, local := range path {
		n = child(n, local)
		if n == nil {
			return nil
		}
	}
	return n
}

// elements returns the element children of n, in document order.
func elements(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// firstChildOf returns the first element child of n whose local name is one
// of names.
func firstChildOf(n *xmlquery.Node, names ...string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		for _, name := range names {
			if c.Data == name {
				return c
			}
		}
	}
	return nil
}

// rootElement returns the document element of a parsed part.
func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == xmlquery.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// attr returns the value of an unprefixed attribute.
func attr(n *xmlquery.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attrInt(n *xmlquery.Node, name string) (int64, bool) {
	s, ok := attr(n, name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		log.Warningf("ignoring non-integer %s=%q on <%s>", name, s, qname(n))
		return 0, false
	}
	return v, true
}

// attrBool reads an xsd:boolean attribute.
func attrBool(n *xmlquery.Node, name string) (bool, bool) {
	s, ok := attr(n, name)
	if !ok {
		return false, false
	}
	switch s {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	log.Warningf("ignoring non-boolean %s=%q on <%s>", name, s, qname(n))
	return false, false
}

// setAttr sets or replaces an unprefixed attribute, keeping attribute order.
func setAttr(n *xmlquery.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Name.Space == "" && n.Attr[i].Name.Local == name {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{Name: xml.Name{Local: name}, Value: value})
}

func removeAttr(n *xmlquery.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Name.Space == "" && n.Attr[i].Name.Local == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// newElement creates a detached element in the DrawingML ("a") or
// PresentationML ("p") namespace.
func newElement(prefix, local string) *xmlquery.Node {
	ns := nsDrawingML
	if prefix == "p" {
		ns = nsPresentationML
	}
	return &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		Prefix:       prefix,
		NamespaceURI: ns,
	}
}

// insertBefore links n into parent immediately before ref. A nil ref appends.
func insertBefore(parent, ref, n *xmlquery.Node) {
	if ref == nil {
		xmlquery.AddChild(parent, n)
		return
	}
	n.Parent = parent
	n.NextSibling = ref
	n.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else {
		parent.FirstChild = n
	}
	ref.PrevSibling = n
}

// insertOrdered inserts n into parent before the first existing child whose
// local name is listed in followers, which keeps schema sequence order.
func insertOrdered(parent, n *xmlquery.Node, followers ...string) {
	insertBefore(parent, firstChildOf(parent, followers...), n)
}

// ensureChild returns parent's child named local, creating it in schema
// order when absent.
func ensureChild(parent *xmlquery.Node, prefix, local string, followers ...string) *xmlquery.Node {
	if c := child(parent, local); c != nil {
		return c
	}
	c := newElement(prefix, local)
	insertOrdered(parent, c, followers...)
	return c
}

// replaceNode swaps old for n in old's parent.
func replaceNode(old, n *xmlquery.Node) {
	parent := old.Parent
	insertBefore(parent, old, n)
	xmlquery.RemoveFromTree(old)
}

func removeChildren(n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
}

func qname(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// nodePath describes n for diagnostics, e.g.
// p:sp[Title 1]/p:spPr/a:prstGeom/a:avLst/a:gd[adj]. The path starts at the
// nearest enclosing shape element.
func nodePath(n *xmlquery.Node) string {
	var segs []string
	for cur := n; cur != nil && cur.Type == xmlquery.ElementNode; cur = cur.Parent {
		seg := qname(cur)
		if label := pathLabel(cur); label != "" {
			seg += "[" + label + "]"
		}
		segs = append(segs, seg)
		if isShapeElement(cur) {
			break
		}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/")
}

func pathLabel(n *xmlquery.Node) string {
	if isShapeElement(n) {
		if cNvPr := descend(n, shapeNvPrName(n), "cNvPr"); cNvPr != nil {
			name, _ := attr(cNvPr, "name")
			return name
		}
		return ""
	}
	if n.Data == "gd" {
		name, _ := attr(n, "name")
		return name
	}
	return ""
}
