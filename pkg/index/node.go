// Package index builds the two-pass citable tree used by the renderer and
// assembler: the Indexer collapses a parsed TEI tree down to its citable
// nodes, hoisting citable descendants past non-citable ancestors and
// recording preliminary citetrail/passagetrail stems and parent hints, and
// the Resolver walks the resulting tree to assign every node its canonical
// citetrail and passagetrail, disambiguating siblings and linking
// prev/next/members.
package index

import (
	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/classify"
)

// Node is a single citable unit of the index: either a basic leaf (a
// renderable atomic passage) or a container whose Children are themselves
// citable nodes. Fields mirror "Index node" data model.
type Node struct {
	Element *etree.Element

	// ID echoes the source element's xml:id. Name is its local tag name.
	ID   string
	Name string

	// Type is the semantic role assigned by the classifier.
	Type classify.Role

	// Basic marks a leaf-citable node: one the renderer fully expands.
	Basic bool

	// CiteType is the semantic label used for citation-label lookups
	// ("chapter", "page", "paragraph", ...): a div's @type, an element's
	// local name, or a milestone's @unit.
	CiteType string

	// Title is a human teaser for the node, derived per-element-name.
	Title string

	// CiteStem is the preliminary, pre-disambiguation citetrail fragment;
	// may be empty. CiteStemForced marks a stem built from a
	// citation-label fallback that is conventionally always numbered
	// (e.g. "chapter", "question") even with no colliding siblings.
	CiteStem       string
	CiteStemForced bool

	// CitetrailParentID is the identifier of the nearest
	// citetrail-eligible ancestor, or "" if none exists.
	CitetrailParentID string

	// PassageStem is the preliminary passagetrail fragment; empty when
	// the node does not satisfy the is-citeref predicate.
	PassageStem string

	// PassagetrailParentID and PassagetrailAncestorCount locate the node
	// within the passagetrail hierarchy.
	PassagetrailParentID      string
	PassagetrailAncestorCount int

	// Level is the node's depth in the citetrail hierarchy (>= 1).
	Level int

	// Parent and Children describe the compressed structural tree
	// produced by the Indexer (citable descendants hoisted past
	// non-citable ancestors). This is NOT necessarily the same edge as
	// CitetrailParentID: a marginal or page node's citetrail parent is
	// often several tree-levels above its immediate tree Parent.
	Parent   *Node
	Children []*Node

	// Set by the Resolver:
	Citetrail    string
	Passagetrail string
	Position     int
	Prev         *Node
	Next         *Node
	Members      []*Node
}

// Builder constructs a Node incrementally, mirroring the fluent
// construction style used elsewhere in the pipeline for tree types.
type Builder struct {
	node *Node
}

// NewBuilder starts building a Node wrapping el.
func NewBuilder(el *etree.Element) *Builder {
	return &Builder{node: &Node{Element: el}}
}

// WithID sets the node's echoed xml:id.
func (b *Builder) WithID(id string) *Builder {
	b.node.ID = id

	return b
}

// WithName sets the node's source local name.
func (b *Builder) WithName(name string) *Builder {
	b.node.Name = name

	return b
}

// WithRole sets the node's semantic role.
func (b *Builder) WithRole(role classify.Role) *Builder {
	b.node.Type = role

	return b
}

// WithBasic marks the node as a basic (leaf) citable unit.
func (b *Builder) WithBasic(basic bool) *Builder {
	b.node.Basic = basic

	return b
}

// WithCiteType sets the semantic citation-label key.
func (b *Builder) WithCiteType(citeType string) *Builder {
	b.node.CiteType = citeType

	return b
}

// WithTitle sets the node's human teaser title.
func (b *Builder) WithTitle(title string) *Builder {
	b.node.Title = title

	return b
}

// WithCiteStem sets the preliminary citetrail fragment; forced marks
// citation-label-derived stems that are conventionally always numbered.
func (b *Builder) WithCiteStem(stem string, forced bool) *Builder {
	b.node.CiteStem = stem
	b.node.CiteStemForced = forced

	return b
}

// WithCitetrailParentID sets the nearest citetrail-eligible ancestor id.
func (b *Builder) WithCitetrailParentID(id string) *Builder {
	b.node.CitetrailParentID = id

	return b
}

// WithPassageStem sets the preliminary passagetrail fragment.
func (b *Builder) WithPassageStem(stem string) *Builder {
	b.node.PassageStem = stem

	return b
}

// WithPassagetrailParent sets the passagetrail-parent id and ancestor count.
func (b *Builder) WithPassagetrailParent(id string, ancestorCount int) *Builder {
	b.node.PassagetrailParentID = id
	b.node.PassagetrailAncestorCount = ancestorCount

	return b
}

// WithChildren attaches children, setting their Parent backlink.
func (b *Builder) WithChildren(children ...*Node) *Builder {
	b.node.Children = children

	for _, c := range children {
		c.Parent = b.node
	}

	return b
}

// Build returns the constructed Node.
func (b *Builder) Build() *Node {
	return b.node
}
