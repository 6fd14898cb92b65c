package index

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// pureNumberOrBrackets matches an @n value that is only digits and
// brackets, e.g. "3" or "[3]" — such values are not quoted as a title
// since they carry no descriptive content of their own.
var pureNumberOrBrackets = regexp.MustCompile(`^[\d\[\]]+$`)

// nodeTitle derives a human teaser for el, following the per-element-name
// rule table documented in "Node titles". It is evaluated
// once when the Indexer allocates a node.
func nodeTitle(el *etree.Element, wc *workconfig.WorkConfig) string {
	name := tei.LocalName(el)

	switch name {
	case "div", "item", "list", "milestone":
		return divLikeTitle(el, wc)
	case "lg":
		if head := el.FindElement("head"); head != nil {
			return teaserTitle(head, wc)
		}

		return teaserTitle(el, wc)
	case "note":
		if n := tei.Attr(el, "n", ""); n != "" {
			return `"` + n + `"`
		}

		return ""
	case "pb":
		n := tei.Attr(el, "n", "")
		if strings.HasPrefix(n, "fol.") {
			return n
		}

		return "p. " + n
	case "text":
		if tei.Attr(el, "type", "") == "work_volume" {
			return tei.Attr(el, "n", "")
		}

		return ""
	case "head", "label", "p", "signed", "titlePart":
		return teaserTitle(el, wc)
	default:
		return ""
	}
}

// divLikeTitle implements the shared rule for div/item/list/milestone:
// quoted @n (unless it is a bare number), else a head/label child teaser,
// else raw @n, else a teaser of the first in-work ref pointing at this
// node, else empty.
func divLikeTitle(el *etree.Element, wc *workconfig.WorkConfig) string {
	if n := tei.Attr(el, "n", ""); n != "" && !pureNumberOrBrackets.MatchString(n) {
		return `"` + n + `"`
	}

	if head := el.FindElement("head"); head != nil {
		return teaserTitle(head, wc)
	}

	if label := el.FindElement("label"); label != nil {
		return teaserTitle(label, wc)
	}

	if n := tei.Attr(el, "n", ""); n != "" {
		return n
	}

	if ref := findReferringRef(el); ref != nil {
		return teaserTitle(ref, wc)
	}

	return ""
}

// findReferringRef locates the first in-document ref[@target="#id"]
// pointing back at el, by id, searching the whole tree from the root.
func findReferringRef(el *etree.Element) *etree.Element {
	id := tei.XMLID(el)
	if id == "" {
		return nil
	}

	root := el
	for root.Parent() != nil {
		root = root.Parent()
	}

	target := "#" + id

	var found *etree.Element

	var walk func(*etree.Element)

	walk = func(e *etree.Element) {
		if found != nil {
			return
		}

		if tei.LocalName(e) == "ref" && tei.Attr(e, "target", "") == target {
			found = e

			return
		}

		for _, c := range e.ChildElements() {
			walk(c)

			if found != nil {
				return
			}
		}
	}

	walk(root)

	return found
}

// teaserTitle truncates el's flattened text content to a quoted teaser, per
// MakeTeaser. The text is every text node under el, so no editorial
// reading is selected: a choice contributes both of its variants.
func teaserTitle(el *etree.Element, wc *workconfig.WorkConfig) string {
	text := MakeTeaser(tei.TextContent(el), wc.TeaserLength)

	return `"` + text + `"`
}
