package classify

import "github.com/beevik/etree"

func localName(el *etree.Element) string {
	tag := el.Tag
	for i := len(tag) - 1; i >= 0; i-- {
		if tag[i] == ':' {
			return tag[i+1:]
		}
	}

	return tag
}

func attr(el *etree.Element, key string) string {
	return el.SelectAttrValue(key, "")
}

// hasAncestorMatching reports whether any ancestor of el satisfies pred.
func hasAncestorMatching(el *etree.Element, pred func(*etree.Element) bool) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "" {
			continue
		}

		if pred(p) {
			return true
		}
	}

	return false
}

// isStructural matches div[@type != work_part], back, front, and
// text[@type = work_volume]: containers that organize the work but never
// carry citable content of their own.
func isStructural(el *etree.Element) bool {
	switch localName(el) {
	case "back", "front":
		return true
	case "div":
		return attr(el, "type") != "work_part"
	case "text":
		return attr(el, "type") == "work_volume"
	default:
		return false
	}
}

// mainSelf is the main role's self-pattern, ignoring ancestry.
func mainSelf(el *etree.Element) bool {
	switch localName(el) {
	case "p", "signed", "titlePage", "lg", "table":
		return true
	case "head":
		return !hasAncestorMatching(el, isListTag)
	case "label":
		return attr(el, "place") != "margin"
	case "argument":
		return !hasAncestorMatching(el, isListTag)
	default:
		return false
	}
}

// isMain requires mainSelf and that no ancestor is itself main, marginal,
// or list: the main/marginal/list families never nest within each other.
func isMain(el *etree.Element) bool {
	if !mainSelf(el) {
		return false
	}

	return !hasAncestorMatching(el, func(a *etree.Element) bool {
		return mainSelf(a) || marginalSelf(a) || listSelf(a)
	})
}

// marginalSelf matches note[@place=margin] or label[@place=margin].
func marginalSelf(el *etree.Element) bool {
	switch localName(el) {
	case "note", "label":
		return attr(el, "place") == "margin"
	default:
		return false
	}
}

func isMarginal(el *etree.Element) bool {
	return marginalSelf(el)
}

// isPage matches pb without @sameAs or @corresp.
func isPage(el *etree.Element) bool {
	if localName(el) != "pb" {
		return false
	}

	return attr(el, "sameAs") == "" && attr(el, "corresp") == ""
}

// isAnchor matches milestone[@unit != other].
func isAnchor(el *etree.Element) bool {
	if localName(el) != "milestone" {
		return false
	}

	return attr(el, "unit") != "other"
}

func isListTag(el *etree.Element) bool {
	return localName(el) == "list"
}

// listSelf is the list role's self-pattern, ignoring ancestry: list, item,
// and head/argument when nested under a list.
func listSelf(el *etree.Element) bool {
	switch localName(el) {
	case "list", "item":
		return true
	case "head", "argument":
		return hasAncestorMatching(el, isListTag)
	default:
		return false
	}
}

// isList requires listSelf and that no ancestor is main or marginal.
func isList(el *etree.Element) bool {
	if !listSelf(el) {
		return false
	}

	return !hasAncestorMatching(el, func(a *etree.Element) bool {
		return mainSelf(a) || marginalSelf(a)
	})
}

func hasDescendantList(el *etree.Element) bool {
	for _, child := range el.ChildElements() {
		if isListTag(child) || hasDescendantList(child) {
			return true
		}
	}

	return false
}

// basicListLeafShape is an item/head/argument with no nested list of its
// own, without the isList ancestor guard; used to find an enclosing basic
// list leaf among ancestors.
func basicListLeafShape(el *etree.Element) bool {
	switch localName(el) {
	case "item", "head", "argument":
		return !hasDescendantList(el)
	default:
		return false
	}
}

// isBasicListElem matches the lowest-level list elements: item, head, or
// argument nodes that contain no nested list and are not themselves nested
// inside another such leaf.
func isBasicListElem(el *etree.Element) bool {
	if !isList(el) {
		return false
	}

	if !basicListLeafShape(el) {
		return false
	}

	return !hasAncestorMatching(el, basicListLeafShape)
}

// IsBasicElem reports whether el is a leaf citable unit under the main or
// marginal role. Because main/marginal/list never nest within the same
// family (enforced by the ancestor guards above), every main or marginal
// node is already a leaf of its own family.
func IsBasicElem(el *etree.Element) bool {
	return isMain(el) || isMarginal(el)
}

// IsBasicListElem reports whether el is a leaf list element: an item,
// head, or argument with no nested list of its own.
func IsBasicListElem(el *etree.Element) bool {
	return isBasicListElem(el)
}

// IsBasic reports whether el is a leaf citable unit of any kind: a basic
// main/marginal element, or a basic (leaf) list element.
func IsBasic(el *etree.Element) bool {
	return IsBasicElem(el) || IsBasicListElem(el)
}

// HasBasicAncestor reports whether any ancestor of el is a basic element.
// Once inside a basic element's subtree, descendants are inline content,
// never independently citable nodes.
func HasBasicAncestor(el *etree.Element) bool {
	return hasAncestorMatching(el, IsBasic)
}
