package render

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// renderItem renders an item element as an ordered, simple, or unordered
// list entry depending on its enclosing list's @type
// "Lists" paragraph. Only basic list leaves (items with no nested list of
// their own) ever reach this handler, since a containing list with nested
// sub-lists is never itself a basic node.
func renderItem(el *etree.Element, mode Mode, c *ctx) (string, error) {
	inner, err := renderChildren(el, mode, c)
	if err != nil {
		return "", err
	}

	listEl := nearestList(el)
	if listEl == nil {
		return wrapHTML("item", el, mode, inner), nil
	}

	switch tei.ListType(listEl) {
	case "ordered", "numbered":
		return renderOrderedItem(el, listEl, mode, inner), nil
	case "simple":
		return renderSimpleItem(mode, inner), nil
	default:
		return renderUnorderedItem(mode, inner), nil
	}
}

// nearestList returns el's closest list ancestor, or nil.
func nearestList(el *etree.Element) *etree.Element {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "" {
			continue
		}

		if tei.LocalName(p) == "list" {
			return p
		}
	}

	return nil
}

// renderOrderedItem numbers el among its sibling items within listEl.
func renderOrderedItem(el, listEl *etree.Element, mode Mode, inner string) string {
	position := 1

	for _, sib := range listEl.ChildElements() {
		if tei.LocalName(sib) != "item" {
			continue
		}

		if sib == el {
			break
		}

		position++
	}

	marker := strconv.Itoa(position) + "."

	if mode == ModeHTML {
		return fmt.Sprintf(`<span class="list-marker">%s</span> %s`, marker, inner)
	}

	return marker + " " + inner
}

// renderSimpleItem collapses a simple list's entries to inline content,
//: "a simple list collapses to inline spans."
func renderSimpleItem(mode Mode, inner string) string {
	if mode == ModeHTML {
		return fmt.Sprintf(`<span class="list-item-simple">%s</span>`, inner)
	}

	return inner
}

// renderUnorderedItem renders a bullet-marked item.
func renderUnorderedItem(mode Mode, inner string) string {
	if mode == ModeHTML {
		return fmt.Sprintf(`<span class="list-marker">&#8226;</span> %s`, inner)
	}

	return "- " + inner
}
