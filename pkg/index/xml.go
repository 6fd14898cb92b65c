package index

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// WritePreliminary serializes root as the preliminary index document
// ("<work_id>_index0.xml"): every node's raw cite/passage stems and
// parent hints, before the Resolver has run.
func WritePreliminary(root *Node) *etree.Document {
	return WritePreliminaryForest([]*Node{root})
}

// WritePreliminaryForest is WritePreliminary's counterpart for a document's
// top-level forest of index nodes: every root is serialized as a sibling
// <node> under one synthetic <index> wrapper, since a document's citable
// structure rarely collapses to a single top-level node (see
// Indexer.BuildForest). The wrapper exists only at the serialization layer
// and plays no part in resolution.
func WritePreliminaryForest(roots []*Node) *etree.Document {
	doc := etree.NewDocument()
	doc.Indent(2)

	wrapper := etree.NewElement("index")
	for _, root := range roots {
		wrapper.AddChild(preliminaryElement(root))
	}

	doc.SetRoot(wrapper)

	return doc
}

func preliminaryElement(n *Node) *etree.Element {
	el := etree.NewElement("node")
	el.CreateAttr("id", n.ID)
	el.CreateAttr("name", n.Name)
	el.CreateAttr("type", string(n.Type))
	el.CreateAttr("basic", boolAttr(n.Basic))
	el.CreateAttr("cite_type", n.CiteType)

	if n.CiteStem != "" {
		el.CreateAttr("cite_stem", n.CiteStem)
	}

	if n.CitetrailParentID != "" {
		el.CreateAttr("citetrail_parent_id", n.CitetrailParentID)
	}

	if n.PassageStem != "" {
		el.CreateAttr("passage_stem", n.PassageStem)
	}

	if n.PassagetrailParentID != "" {
		el.CreateAttr("passagetrail_parent_id", n.PassagetrailParentID)
	}

	if n.Title != "" {
		el.CreateAttr("title", n.Title)
	}

	for _, c := range n.Children {
		el.AddChild(preliminaryElement(c))
	}

	return el
}

// WriteResolved serializes root as the resolved index document
// ("<work_id>_index.xml"): every node's canonical citetrail, passagetrail,
// position, and prev/next/member links.
func WriteResolved(root *Node) *etree.Document {
	return WriteResolvedForest([]*Node{root})
}

// WriteResolvedForest is WriteResolved's counterpart for a document's
// top-level forest of index nodes; see WritePreliminaryForest.
func WriteResolvedForest(roots []*Node) *etree.Document {
	doc := etree.NewDocument()
	doc.Indent(2)

	wrapper := etree.NewElement("index")
	for _, root := range roots {
		wrapper.AddChild(resolvedElement(root))
	}

	doc.SetRoot(wrapper)

	return doc
}

func resolvedElement(n *Node) *etree.Element {
	el := etree.NewElement("node")
	el.CreateAttr("id", n.ID)
	el.CreateAttr("name", n.Name)
	el.CreateAttr("type", string(n.Type))
	el.CreateAttr("basic", boolAttr(n.Basic))
	el.CreateAttr("cite_type", n.CiteType)
	el.CreateAttr("citetrail", n.Citetrail)

	if n.Passagetrail != "" {
		el.CreateAttr("passagetrail", n.Passagetrail)
	}

	el.CreateAttr("level", strconv.Itoa(n.Level))
	el.CreateAttr("position", strconv.Itoa(n.Position))

	if n.Prev != nil {
		el.CreateAttr("prev", n.Prev.ID)
	}

	if n.Next != nil {
		el.CreateAttr("next", n.Next.ID)
	}

	if len(n.Members) > 0 {
		ids := make([]string, len(n.Members))
		for i, m := range n.Members {
			ids[i] = m.ID
		}

		el.CreateAttr("members", strings.Join(ids, ","))
	}

	for _, c := range n.Children {
		el.AddChild(resolvedElement(c))
	}

	return el
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

