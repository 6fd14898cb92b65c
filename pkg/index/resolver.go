package index

import (
	"github.com/salamanca-digital/citetrail/pkg/classify"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// Resolver performs the second pass over an indexed tree: assigning every
// node its canonical citetrail and passagetrail, disambiguating
// identical-looking siblings, and linking prev/next/members.
type Resolver struct{}

// NewResolver returns a Resolver ready to use.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve assigns citetrails and passagetrails to root and its entire
// subtree, using wc's citetrail/passagetrail identifier maps and cite-depth
// limit. Processing happens in two sweeps over a document-order flattening
// of the tree: first, per-group disambiguation (grouped by citetrail/
// passagetrail parent, not raw tree adjacency, since page/marginal/anchor
// nodes' citetrail parent often skips tree levels); second, a single
// pre-order walk that concatenates each node's fragment onto its already
// resolved parent trail, relying on the parent always preceding the child
// in pre-order.
func (rs *Resolver) Resolve(root *Node, wc *workconfig.WorkConfig) {
	rs.resolveAll(rs.flattenBounded(root, wc), nil, wc)
}

// ResolveForest assigns citetrails and passagetrails across an entire
// document's top-level forest of index nodes at once: the flattened
// top-level results an Indexer produces when handed the work's <text>
// element directly, since intermediate non-citable elements are skipped
// all the way to the top of the tree, so a document's citable structure
// is rarely a single root. Nodes sharing an empty
// CitetrailParentID — i.e. every top-level node — are disambiguated as
// siblings of one another exactly as nested siblings are, and roots is
// also used as the sibling set for prev/next linking since top-level
// nodes have no common tree Parent to read siblings from.
func (rs *Resolver) ResolveForest(roots []*Node, wc *workconfig.WorkConfig) {
	var all []*Node

	for _, root := range roots {
		all = append(all, rs.flattenBounded(root, wc)...)
	}

	rs.resolveAll(all, roots, wc)
}

// resolveAll is the shared two-sweep resolution body used by both Resolve
// and ResolveForest. topLevel, when non-nil, is the sibling set used for
// prev/next linking on nodes with no tree Parent.
func (rs *Resolver) resolveAll(all []*Node, topLevel []*Node, wc *workconfig.WorkConfig) {
	citetrailGroups := make(map[string][]*Node)
	for _, n := range all {
		citetrailGroups[n.CitetrailParentID] = append(citetrailGroups[n.CitetrailParentID], n)
	}

	citetrailFragments := make(map[*Node]string, len(all))

	for _, group := range citetrailGroups {
		for n, frag := range disambiguateCitetrailStems(group) {
			citetrailFragments[n] = frag
		}
	}

	var citeRefNodes []*Node

	for _, n := range all {
		if isCiteRef(n.Type, n.CiteType, wc) {
			citeRefNodes = append(citeRefNodes, n)
		}
	}

	passageFragments := disambiguatePassageFragments(citeRefNodes)

	levelOf := make(map[string]int, len(all))

	for i, n := range all {
		n.Position = i + 1

		frag := citetrailFragments[n]
		if n.CitetrailParentID != "" {
			if parentTrail, ok := wc.CitetrailOf[n.CitetrailParentID]; ok {
				n.Citetrail = parentTrail + "." + frag
			} else {
				n.Citetrail = frag
			}
		} else {
			n.Citetrail = frag
		}

		wc.RecordCitetrail(n.ID, n.Citetrail)

		parentPassage := ""
		if n.PassagetrailParentID != "" {
			parentPassage = wc.PassagetrailOf[n.PassagetrailParentID]
		}

		n.Passagetrail = joinPassagetrail(parentPassage, passageFragments[n])
		wc.RecordPassagetrail(n.ID, n.Passagetrail)

		if n.CitetrailParentID != "" {
			n.Level = levelOf[n.CitetrailParentID] + 1
		} else {
			n.Level = 1
		}

		levelOf[n.ID] = n.Level
	}

	for _, n := range all {
		n.Members = citetrailGroups[n.ID]
	}

	rs.linkSameTypeSiblings(all, topLevel)
}

// flattenBounded walks root in pre-order, refusing to descend past wc's
// configured maximum citation depth; nodes beyond the limit are omitted
// from resolution entirely rather than assigned a malformed trail.
func (rs *Resolver) flattenBounded(root *Node, wc *workconfig.WorkConfig) []*Node {
	out := []*Node{root}

	if !wc.Descend() {
		return out
	}
	defer wc.Ascend()

	for _, c := range root.Children {
		out = append(out, rs.flattenBounded(c, wc)...)
	}

	return out
}

// linkSameTypeSiblings sets Prev/Next for structural and main nodes to the
// immediately preceding/following tree-sibling sharing the same role,
// restricting this to same-type siblings.
func (rs *Resolver) linkSameTypeSiblings(all, topLevel []*Node) {
	for _, n := range all {
		if n.Type != classify.RoleStructural && n.Type != classify.RoleMain {
			continue
		}

		siblings := topLevel

		if n.Parent != nil {
			siblings = n.Parent.Children
		}

		if siblings == nil {
			continue
		}

		var sameType []*Node

		for _, c := range siblings {
			if c.Type == n.Type {
				sameType = append(sameType, c)
			}
		}

		for i, c := range sameType {
			if c != n {
				continue
			}

			if i > 0 {
				n.Prev = sameType[i-1]
			}

			if i < len(sameType)-1 {
				n.Next = sameType[i+1]
			}

			break
		}
	}
}
