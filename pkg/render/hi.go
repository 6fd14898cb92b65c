package render

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// renditionClasses maps a hi@rendition token to its CSS class. Unlisted
// tokens still render (as a class matching the token with its "#" stripped)
// so unanticipated project-specific rendition vocabularies degrade
// gracefully instead of failing the whole fragment.
var renditionClasses = map[string]string{
	"#b":        "bold",
	"#it":       "italic",
	"#sc":       "small-caps",
	"#sup":      "superscript",
	"#sub":      "subscript",
	"#u":        "underline",
	"#strike":   "strikethrough",
	"#r-center": "align-center",
	"#right":    "align-right",
}

// blockRenditionTokens are alignment tokens suppressed when the enclosing
// section already controls alignment "hi" paragraph.
var blockRenditionTokens = map[string]bool{
	"#r-center": true,
	"#right":    true,
}

// blockAlignmentOwners are ancestor tags whose own layout convention
// overrides a nested hi's block-alignment token.
var blockAlignmentOwners = map[string]bool{
	"head": true, "signed": true, "titlePage": true, "argument": true,
}

// renderHi renders a hi element: its @rendition token list becomes a
// space-separated CSS class list in HTML; plain text carries no markup,
// so hi is transparent there.
func renderHi(el *etree.Element, mode Mode, c *ctx) (string, error) {
	inner, err := renderChildren(el, mode, c)
	if err != nil {
		return "", err
	}

	if mode != ModeHTML || inner == "" {
		return inner, nil
	}

	tokens := strings.Fields(tei.Attr(el, "rendition", ""))
	suppressBlock := hasBlockAlignmentAncestor(el)

	var classes []string

	for _, tok := range tokens {
		if suppressBlock && blockRenditionTokens[tok] {
			continue
		}

		if cls, ok := renditionClasses[tok]; ok {
			classes = append(classes, cls)
		} else {
			classes = append(classes, strings.TrimPrefix(tok, "#"))
		}
	}

	if len(classes) == 0 {
		return inner, nil
	}

	return `<span class="` + strings.Join(classes, " ") + `">` + inner + `</span>`, nil
}

// hasBlockAlignmentAncestor reports whether any ancestor of el already
// imposes its own alignment convention, which overrides a nested hi's
// block-level rendition tokens.
func hasBlockAlignmentAncestor(el *etree.Element) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "" {
			continue
		}

		if blockAlignmentOwners[tei.LocalName(p)] {
			return true
		}
	}

	return false
}
