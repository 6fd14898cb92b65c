package index

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/classify"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// nonAlphanumeric strips everything but ASCII letters and digits, used to
// clean @n/@key values before they become citetrail infixes.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// citeTypeOf derives the semantic citation-label key for el: a div's @type,
// a milestone's @unit, or the element's bare local name.
func citeTypeOf(el *etree.Element) string {
	name := tei.LocalName(el)

	switch name {
	case "div":
		if t := tei.Attr(el, "type", ""); t != "" {
			return t
		}

		return name
	case "milestone":
		if u := tei.Attr(el, "unit", ""); u != "" {
			return u
		}

		return name
	case "text":
		if tei.Attr(el, "type", "") == "work_volume" {
			return "textVolume"
		}

		return name
	default:
		return name
	}
}

// citetrailPrefixAndInfix derives a node's preliminary citetrail stem,
// returning the stem and whether it came from a citation-label fallback
// (which is always numbered).
func citetrailPrefixAndInfix(el *etree.Element, role classify.Role, citeType string, wc *workconfig.WorkConfig) (stem string, forced bool) {
	name := tei.LocalName(el)

	switch role {
	case classify.RolePage:
		infix := pageInfix(el)

		return "p" + infix, false
	case classify.RoleMarginal:
		infix := ""
		if n := tei.Attr(el, "n", ""); n != "" {
			infix = strings.ToUpper(nonAlphanumeric.ReplaceAllString(n, ""))
		}

		return "n" + infix, false
	case classify.RoleAnchor:
		if name == "milestone" {
			if u := tei.Attr(el, "unit", ""); u != "" {
				return u, false
			}
		}
	case classify.RoleStructural:
		switch name {
		case "front":
			return "frontmatter", false
		case "back":
			return "backmatter", false
		case "text":
			if tei.Attr(el, "type", "") == "work_volume" {
				return "vol", false
			}
		}
	case classify.RoleMain:
		switch name {
		case "head":
			return "heading", false
		case "titlePage":
			return "titlepage", false
		}
	case classify.RoleList:
		switch name {
		case "list":
			if t := tei.Attr(el, "type", ""); t == "dict" || t == "index" {
				return t, false
			}
		case "item":
			if hasAncestorDictList(el) {
				if infix := dictItemInfix(el); infix != "" {
					return "entry" + infix, false
				}

				return "entry", false
			}
		}
	}

	// No fixed structural prefix applies: fall back to the citation-label
	// table. A chapter div, for instance, has no dedicated rule above but
	// still contributes "cap." (its label abbreviation) and is always
	// numbered like a series scenario 1.
	if label, ok := wc.CitationLabels[citeType]; ok && label.Abbr != "" {
		return label.Abbr, label.IsCiteRef
	}

	return "", false
}

// pageInfix derives a page node's citetrail infix: the stripped/uppercased
// @n, or, if @n is absent, the @facs value with its first five characters
// removed.
func pageInfix(el *etree.Element) string {
	if n := tei.Attr(el, "n", ""); n != "" {
		return strings.ToUpper(nonAlphanumeric.ReplaceAllString(n, ""))
	}

	facs := tei.Attr(el, "facs", "")
	if len(facs) > 5 {
		return facs[5:]
	}

	return facs
}

func hasAncestorDictList(el *etree.Element) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if tei.LocalName(p) == "list" && tei.Attr(p, "type", "") == "dict" {
			return true
		}
	}

	return false
}

// dictItemInfix derives an item's infix from a same-list-depth descendant
// term[@key], stripped of non-alphanumerics and uppercased.
func dictItemInfix(el *etree.Element) string {
	itemDepth := listDepth(el)

	var found string

	var walk func(*etree.Element)

	walk = func(e *etree.Element) {
		if found != "" {
			return
		}

		if tei.LocalName(e) == "term" {
			if key := tei.Attr(e, "key", ""); key != "" && listDepth(e) == itemDepth {
				found = strings.ToUpper(nonAlphanumeric.ReplaceAllString(key, ""))

				return
			}
		}

		for _, c := range e.ChildElements() {
			walk(c)

			if found != "" {
				return
			}
		}
	}

	walk(el)

	return found
}

func listDepth(el *etree.Element) int {
	depth := 0

	for p := el.Parent(); p != nil; p = p.Parent() {
		if tei.LocalName(p) == "list" {
			depth++
		}
	}

	return depth
}

// citetrailParentID selects the nearest ancestor eligible to be el's
// citetrail parent, by role-specific rules. An eligible ancestor must also
// carry an xml:id: an ancestor with a citable role but no id is never
// built as its own index node (see Indexer.index), so it cannot serve as
// anyone's CitetrailParentID either — skipping past it here keeps that
// invariant consistent instead of silently falling back to the top-level
// group.
func citetrailParentID(el *etree.Element, role classify.Role) string {
	switch role {
	case classify.RoleMarginal, classify.RoleAnchor:
		for p := el.Parent(); p != nil; p = p.Parent() {
			if classify.ElementType(p) == classify.RoleStructural && tei.XMLID(p) != "" {
				return tei.XMLID(p)
			}
		}
	case classify.RolePage:
		for p := el.Parent(); p != nil; p = p.Parent() {
			name := tei.LocalName(p)
			if (name == "front" || name == "back") && tei.XMLID(p) != "" {
				return tei.XMLID(p)
			}

			if name == "text" && tei.XMLID(p) != "" && tei.XMLID(p) != "completeWork" && tei.Attr(p, "type", "") != "work_part" {
				return tei.XMLID(p)
			}
		}
	default:
		for p := el.Parent(); p != nil; p = p.Parent() {
			if classify.ElementType(p) != classify.RoleNone && tei.XMLID(p) != "" {
				return tei.XMLID(p)
			}
		}
	}

	return ""
}

// disambiguateCitetrailStems assigns each sibling in group its final,
// disambiguated citetrail fragment, using document
// order. Fragments are written into each node's resolvedFragment field
// (via the returned map) rather than mutating Node directly, since the
// Resolver still needs CiteStem for diagnostics.
func disambiguateCitetrailStems(group []*Node) map[*Node]string {
	fragments := make(map[*Node]string, len(group))

	for i, n := range group {
		stem := n.CiteStem

		if stem == "" {
			preceding := 0

			for _, sib := range group[:i] {
				if sib.CiteStem == "" {
					preceding++
				}
			}

			fragments[n] = strconv.Itoa(preceding + 1)

			continue
		}

		preceding, following := 0, 0

		for _, sib := range group[:i] {
			if sib.CiteStem == stem {
				preceding++
			}
		}

		for _, sib := range group[i+1:] {
			if sib.CiteStem == stem {
				following++
			}
		}

		if preceding+following == 0 && !n.CiteStemForced {
			fragments[n] = stem

			continue
		}

		if endsWithDigit(stem) {
			fragments[n] = stem + "-" + strconv.Itoa(preceding+1)
		} else {
			fragments[n] = stem + strconv.Itoa(preceding+1)
		}
	}

	return fragments
}

func endsWithDigit(s string) bool {
	if s == "" {
		return false
	}

	c := s[len(s)-1]

	return c >= '0' && c <= '9'
}
