// Package assemble combines resolved index entries with renderer output
// into the per-fragment records that are the pipeline's final product:
// one record per index node, with basic nodes additionally carrying
// rendered text/HTML and a self-contained TEI subtree.
package assemble

import (
	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/index"
	"github.com/salamanca-digital/citetrail/pkg/render"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// Fragment is the assembled record for a single index node. TxtOrig,
// TxtEdit, HTML, and Markup are only
// populated for basic nodes; non-basic (structural) nodes carry only the
// index metadata and a title teaser.
type Fragment struct {
	ID           string   `json:"id"`
	Citetrail    string   `json:"citetrail"`
	Passagetrail string   `json:"passagetrail"`
	CiteType     string   `json:"cite_type"`
	Title        string   `json:"title,omitempty"`
	Level        int      `json:"level"`
	Position     int      `json:"position"`
	Up           string   `json:"up,omitempty"`
	Prev         string   `json:"prev,omitempty"`
	Next         string   `json:"next,omitempty"`
	Members      []string `json:"members,omitempty"`
	Basic        bool     `json:"basic"`

	TxtOrig string `json:"txt_orig,omitempty"`
	TxtEdit string `json:"txt_edit,omitempty"`
	HTML    string `json:"html,omitempty"`
	Markup  string `json:"markup,omitempty"`
}

// Assembler walks a resolved index tree and produces one Fragment per
// node, rendering basic nodes through pkg/render and wrapping their
// source subtree through Wrap.
type Assembler struct {
	wc *workconfig.WorkConfig
}

// New returns an Assembler that renders basic nodes using wc.
func New(wc *workconfig.WorkConfig) *Assembler {
	return &Assembler{wc: wc}
}

// Assemble walks root's entire resolved subtree in document order and
// returns one Fragment per index node, matching the Resolver's Position
// assignment.
func (a *Assembler) Assemble(root *index.Node) ([]Fragment, error) {
	var out []Fragment

	if err := a.walk(root, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// AssembleForest is Assemble's counterpart for a document's top-level
// forest of index nodes (see [index.Indexer.BuildForest]): it walks every
// root in roots, in document order, concatenating their Fragments into
// one flat slice.
func (a *Assembler) AssembleForest(roots []*index.Node) ([]Fragment, error) {
	var out []Fragment

	for _, root := range roots {
		if err := a.walk(root, &out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (a *Assembler) walk(n *index.Node, out *[]Fragment) error {
	frag, err := a.assembleOne(n)
	if err != nil {
		return err
	}

	*out = append(*out, frag)

	for _, c := range n.Children {
		if err := a.walk(c, out); err != nil {
			return err
		}
	}

	return nil
}

// assembleOne builds a single node's Fragment: the
// shared index metadata for every node, plus rendered text/HTML/markup
// for basic nodes only.
func (a *Assembler) assembleOne(n *index.Node) (Fragment, error) {
	frag := Fragment{
		ID:           n.ID,
		Citetrail:    n.Citetrail,
		Passagetrail: n.Passagetrail,
		CiteType:     n.CiteType,
		Title:        n.Title,
		Level:        n.Level,
		Position:     n.Position,
		Up:           n.CitetrailParentID,
		Basic:        n.Basic,
	}

	if n.Prev != nil {
		frag.Prev = n.Prev.ID
	}

	if n.Next != nil {
		frag.Next = n.Next.ID
	}

	for _, m := range n.Members {
		frag.Members = append(frag.Members, m.ID)
	}

	if !n.Basic {
		return frag, nil
	}

	txtOrig, txtEdit, html, err := render.Fragment(n.Element, a.wc)
	if err != nil {
		return Fragment{}, err
	}

	frag.TxtOrig = txtOrig
	frag.TxtEdit = txtEdit
	frag.HTML = html

	markup, err := Wrap(n.Element)
	if err != nil {
		return Fragment{}, err
	}

	frag.Markup = markup

	return frag, nil
}

// Wrap re-parents el's source element, copied, inside a freshly built
// copy of every one of its ancestors (attributes preserved, innermost
// first), so the resulting subtree is fully self-contained: re-parsing it
// alone reproduces el in the same structural context it came from in the
// source document, making the fragment's "TEI subtree" field
// round-trip testable on its own. The outermost wrapper declares the TEI
// namespace so the fragment is valid standalone XML.
func Wrap(el *etree.Element) (string, error) {
	node := el.Copy()

	ancestors := tei.Ancestors(el)

	for _, anc := range ancestors {
		wrapper := etree.NewElement(anc.Tag)
		tei.CopyAttributes(wrapper, anc)
		wrapper.AddChild(node)
		node = wrapper
	}

	if node.SelectAttr("xmlns") == nil {
		node.CreateAttr("xmlns", tei.Namespace)
	}

	doc := etree.NewDocument()
	doc.SetRoot(node)
	doc.Indent(0)

	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}

	return out, nil
}
