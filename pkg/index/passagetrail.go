package index

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/classify"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// isCiteRef reports whether el contributes its own passagetrail fragment.
// Nodes that fail this predicate are transparent for passagetrail purposes:
// their passagetrail is simply their parent's, unchanged.
func isCiteRef(role classify.Role, citeType string, wc *workconfig.WorkConfig) bool {
	if role == classify.RoleMarginal || role == classify.RolePage {
		return true
	}

	if citeType == "textVolume" {
		return true
	}

	_, ok := wc.CitationLabels[citeType]

	return ok
}

// isNumeric reports whether s is non-empty and consists only of Unicode
// decimal digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// passageStem builds a node's preliminary, pre-disambiguation passagetrail
// fragment passagetrail construction paragraph.
func passageStem(el *etree.Element, role classify.Role, citeType string, basic bool, wc *workconfig.WorkConfig) string {
	switch role {
	case classify.RoleMarginal:
		if n := tei.Attr(el, "n", ""); n != "" {
			return "n. " + n
		}

		return "n."
	case classify.RolePage:
		n := tei.Attr(el, "n", "")
		if n == "" {
			n = pageInfix(el)
		}

		if strings.HasPrefix(n, "fol.") {
			return n
		}

		return "p. " + n
	}

	if citeType == "textVolume" {
		return tei.Attr(el, "n", "")
	}

	label, ok := wc.CitationLabels[citeType]
	if !ok {
		if basic {
			return MakeTeaser(tei.TextContent(el), wc.TeaserLength)
		}

		if n := tei.Attr(el, "n", ""); n != "" {
			return "@" + n
		}

		return tei.LocalName(el)
	}

	nAttr := tei.Attr(el, "n", "")

	switch {
	case isNumeric(nAttr):
		return label.Abbr + " " + nAttr
	case label.IsCiteRef:
		return label.Abbr + " " + MakeTeaser(tei.TextContent(el), 15)
	case nAttr != "":
		return label.Abbr + " " + nAttr
	default:
		return label.Abbr
	}
}

// MakeTeaser truncates text to length characters at the nearest preceding
// word boundary, appending an ellipsis when truncated.
func MakeTeaser(text string, length int) string {
	text = stripEditorialMarkers(text)
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	cut := length

	for cut > 0 && runes[cut-1] != ' ' {
		cut--
	}

	if cut == 0 {
		cut = length
	}

	return strings.TrimSpace(string(runes[:cut])) + "…"
}

// stripEditorialMarkers removes bracketed editorial markers ({...}, [...])
// from teaser source text, matching the original's teaser-building rule.
func stripEditorialMarkers(text string) string {
	var b strings.Builder

	depth := 0

	for _, r := range text {
		switch r {
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}

	return b.String()
}

// passageGroupKey identifies the scope over which passagetrail fragments
// are disambiguated: siblings under the same passagetrail parent, sharing
// a tag and ancestor count, whose fragment text matches.
type passageGroupKey struct {
	parentID      string
	ancestorCount int
	tag           string
	fragment      string
}

// disambiguatePassageFragments assigns each citeref-contributing node its
// final fragment text, appending a bracketed auto-numbering position among
// nodes sharing the same (parent, tag, ancestor count, fragment) scope, in
// document order. nodes must already be in document order.
func disambiguatePassageFragments(nodes []*Node) map[*Node]string {
	groups := make(map[passageGroupKey][]*Node)

	for _, n := range nodes {
		key := passageGroupKey{
			parentID:      n.PassagetrailParentID,
			ancestorCount: n.PassagetrailAncestorCount,
			tag:           n.Name,
			fragment:      n.PassageStem,
		}
		groups[key] = append(groups[key], n)
	}

	result := make(map[*Node]string, len(nodes))

	for _, group := range groups {
		if len(group) == 1 {
			result[group[0]] = group[0].PassageStem

			continue
		}

		for i, n := range group {
			result[n] = n.PassageStem + " [" + strconv.Itoa(i+1) + "]"
		}
	}

	return result
}

// joinPassagetrail concatenates a node's fragment onto its parent's already
// resolved passagetrail using a comma-space separator
// scenario 3 ("cap. 2, art. 3").
func joinPassagetrail(parentTrail, fragment string) string {
	if fragment == "" {
		return parentTrail
	}

	if parentTrail == "" {
		return fragment
	}

	return parentTrail + ", " + fragment
}
