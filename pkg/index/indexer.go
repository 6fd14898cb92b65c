package index

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/classify"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// Indexer builds the preliminary citable tree from a parsed TEI subtree. It
// performs no disambiguation and assigns no citetrails; that is the
// Resolver's job in the second pass.
type Indexer struct {
	wc *workconfig.WorkConfig
}

// NewIndexer returns an Indexer that derives preliminary stems and titles
// using wc's citation-label table and teaser length.
func NewIndexer(wc *workconfig.WorkConfig) *Indexer {
	return &Indexer{wc: wc}
}

// Build indexes root and requires root itself to become the single result
// node, returning ErrNodeIndexing if it does not: when root has no citable
// role or no xml:id its descendants are hoisted, and that fails even if
// exactly one descendant survives to the top level.
func (ix *Indexer) Build(root *etree.Element) (*Node, error) {
	result := ix.index(root)

	node, ok := result.Single()
	if !ok {
		return nil, fmt.Errorf("%w: root %s produced %d nodes", ErrNodeIndexing, root.Tag, len(result.Nodes()))
	}

	return node, nil
}

// BuildForest indexes every child of root and returns the flattened
// top-level forest of citable nodes directly, without requiring the
// result to collapse to a single node. This is the entry point pipeline
// callers use on a document's <text> element: the rule that intermediate
// non-citable elements are skipped but their citable descendants are
// hoisted applies all the way to the top of the tree, so a
// document's citable structure is a forest (front, one node per top-level
// div, back, ...), not a single root, whenever <text> itself carries no
// role of its own.
func (ix *Indexer) BuildForest(root *etree.Element) []*Node {
	return ix.indexChildren(root)
}

// index classifies el and either returns it (and its indexed children) as
// a single citable node, or, when el itself carries no citable role or no
// xml:id, hoists its children's results up to the caller as a flattened
// Many. A classified element with no xml:id cannot anchor a citetrail of
// its own or serve as a CitetrailParentID for its descendants, so it is
// treated the same as an unclassified one and skipped over.
// Recursion always continues into every child element regardless of
// whether el itself is basic: page, anchor, and marginal elements may sit
// nested inside a main paragraph (e.g. a page break mid-sentence) and must
// still surface as their own index nodes, hoisted into el's Children.
func (ix *Indexer) index(el *etree.Element) Result {
	role := classify.ElementType(el)

	if role == classify.RoleNone || tei.XMLID(el) == "" {
		return Many(ix.indexChildren(el))
	}

	basic := role == classify.RoleMain || role == classify.RoleMarginal ||
		(role == classify.RoleList && classify.IsBasicListElem(el))

	children := ix.indexChildren(el)

	return One(ix.buildNode(el, role, basic, children))
}

// indexChildren indexes every element child of el and flattens the
// per-child results into a single ordered slice.
func (ix *Indexer) indexChildren(el *etree.Element) []*Node {
	var out []*Node

	for _, child := range el.ChildElements() {
		out = append(out, ix.index(child).Nodes()...)
	}

	return out
}

// buildNode allocates the index node for a classified element, deriving
// its semantic cite_type, title, and preliminary citetrail/passagetrail
// fragments and parent hints.
func (ix *Indexer) buildNode(el *etree.Element, role classify.Role, basic bool, children []*Node) *Node {
	citeType := citeTypeOf(el)
	stem, forced := citetrailPrefixAndInfix(el, role, citeType, ix.wc)
	citetrailParent := citetrailParentID(el, role)

	var passageStemVal string

	passagetrailParent := citetrailParent
	ancestorCount := passagetrailAncestorCount(el, passagetrailParent)

	if isCiteRef(role, citeType, ix.wc) {
		passageStemVal = passageStem(el, role, citeType, basic, ix.wc)
	}

	return NewBuilder(el).
		WithID(tei.XMLID(el)).
		WithName(tei.LocalName(el)).
		WithRole(role).
		WithBasic(basic).
		WithCiteType(citeType).
		WithTitle(nodeTitle(el, ix.wc)).
		WithCiteStem(stem, forced).
		WithCitetrailParentID(citetrailParent).
		WithPassageStem(passageStemVal).
		WithPassagetrailParent(passagetrailParent, ancestorCount).
		WithChildren(children...).
		Build()
}

// passagetrailAncestorCount counts the classified, identified ancestors of
// el strictly between el and the ancestor identified by parentID, used to
// scope passagetrail fragment disambiguation. Only ancestors that were
// actually built as their own index node count: a classified ancestor
// with no xml:id is hoisted rather than built (see Indexer.index) and so
// contributes no level of its own.
func passagetrailAncestorCount(el *etree.Element, parentID string) int {
	count := 0

	for p := el.Parent(); p != nil; p = p.Parent() {
		if tei.XMLID(p) == parentID {
			break
		}

		if classify.ElementType(p) != classify.RoleNone && tei.XMLID(p) != "" {
			count++
		}
	}

	return count
}
