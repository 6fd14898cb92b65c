// Package tei parses TEI-XML documents into an in-memory tree and provides
// the low-level element helpers shared by the classifier, indexer, and
// renderer stages.
package tei

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/beevik/etree"
)

// Namespace is the TEI P5 namespace URI.
const Namespace = "http://www.tei-c.org/ns/1.0"

// xincludeNamespace is the XInclude namespace URI.
const xincludeNamespace = "http://www.w3.org/2001/XInclude"

// xincludeTag is the local name of an XInclude directive element.
const xincludeTag = "include"

// maxXIncludeDepth bounds recursive XInclude expansion to avoid cycles.
const maxXIncludeDepth = 16

// Document wraps a parsed TEI tree together with the raw bytes it was
// parsed from, so callers can estimate cache cost without reserializing.
type Document struct {
	tree *etree.Document
	raw  []byte
}

// Parse reads a TEI-XML document from r, resolving xi:include directives
// relative to baseDir, and returns the fully expanded tree.
//
// Expansion is done by substituting each xi:include element with the root
// element of its target file before the final parse, mirroring the
// read-then-reserialize trick used to sidestep partial-tree artifacts: the
// document is only considered parsed once every inclusion has been resolved
// and the whole result has been re-serialized and re-read.
func Parse(r io.Reader, baseDir string) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tei source: %w", err)
	}

	expanded, err := expandIncludes(raw, baseDir, 0)
	if err != nil {
		return nil, fmt.Errorf("expand xincludes: %w", err)
	}

	doc := etree.NewDocument()
	if readErr := doc.ReadFromBytes(expanded); readErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, readErr)
	}

	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	// Re-serialize and re-read once more so that every node in the final
	// tree, included or not, went through the same parse path.
	var buf bytes.Buffer
	if _, writeErr := doc.WriteTo(&buf); writeErr != nil {
		return nil, fmt.Errorf("reserialize expanded tei: %w", writeErr)
	}

	final := etree.NewDocument()
	if readErr := final.ReadFromBytes(buf.Bytes()); readErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, readErr)
	}

	return &Document{tree: final, raw: buf.Bytes()}, nil
}

func expandIncludes(raw []byte, baseDir string, depth int) ([]byte, error) {
	if depth > maxXIncludeDepth {
		return nil, ErrXIncludeDepth
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	root := doc.Root()
	if root == nil {
		return raw, nil
	}

	changed, err := resolveIncludesIn(root, baseDir, depth)
	if err != nil {
		return nil, err
	}

	if !changed {
		return raw, nil
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("reserialize after xinclude: %w", err)
	}

	// Re-run in case an included fragment itself contains xi:include.
	return expandIncludes(buf.Bytes(), baseDir, depth+1)
}

func resolveIncludesIn(el *etree.Element, baseDir string, depth int) (bool, error) {
	changed := false

	for _, child := range el.ChildElements() {
		if isXInclude(child) {
			if err := resolveOneInclude(el, child, baseDir, depth); err != nil {
				return false, err
			}

			changed = true

			continue
		}

		childChanged, err := resolveIncludesIn(child, baseDir, depth)
		if err != nil {
			return false, err
		}

		changed = changed || childChanged
	}

	return changed, nil
}

func resolveOneInclude(parent, include *etree.Element, baseDir string, depth int) error {
	href := include.SelectAttrValue("href", "")
	if href == "" {
		return fmt.Errorf("%w: xi:include without href", ErrMalformed)
	}

	path := href
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, href)
	}

	includedRaw, err := readFile(path)
	if err != nil {
		return fmt.Errorf("read xinclude target %q: %w", href, err)
	}

	expandedRaw, err := expandIncludes(includedRaw, filepath.Dir(path), depth+1)
	if err != nil {
		return err
	}

	includedDoc := etree.NewDocument()
	if err := includedDoc.ReadFromBytes(expandedRaw); err != nil {
		return fmt.Errorf("%w: parse xinclude target %q: %v", ErrMalformed, href, err)
	}

	includedRoot := includedDoc.Root()
	if includedRoot == nil {
		return fmt.Errorf("%w: xinclude target %q has no root", ErrMalformed, href)
	}

	includedRoot = includedRoot.Copy()

	// InsertChild sets the replacement's parent pointer; RemoveChild then
	// drops the original xi:include element, leaving document order intact.
	parent.InsertChild(include, includedRoot)
	parent.RemoveChild(include)

	return nil
}

func isXInclude(el *etree.Element) bool {
	return el.Tag == xincludeTag && (el.Space == "xi" || el.NamespaceURI() == xincludeNamespace)
}

// Root returns the document's root element.
func (d *Document) Root() *etree.Element {
	return d.tree.Root()
}

// Size returns the byte length of the fully expanded serialized document,
// used by the document cache to estimate memory cost.
func (d *Document) Size() int64 {
	return int64(len(d.raw))
}

// Clone returns a deep, independent copy of the document by reserializing
// and reparsing it, so a cached document can be handed out to concurrent
// requests without risk of shared mutation.
func (d *Document) Clone() *Document {
	raw := make([]byte, len(d.raw))
	copy(raw, d.raw)

	tree := etree.NewDocument()
	_ = tree.ReadFromBytes(raw)

	return &Document{tree: tree, raw: raw}
}
