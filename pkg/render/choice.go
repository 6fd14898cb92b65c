package render

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// origVariantTags and editVariantTags name the two sides of a choice
// element: one "original" variant and one "edited"
// variant.
var origVariantTags = []string{"abbr", "orig", "sic"}

var editVariantTags = []string{"expan", "reg", "corr"}

// renderChoice renders a choice element: plain text emits exactly the
// variant matching mode, HTML emits both wrapped in span classes "orig"
// and "edit" with the counterpart as a tooltip, leaving visibility to
// external CSS.
func renderChoice(el *etree.Element, mode Mode, c *ctx) (string, error) {
	origEl := firstChildMatching(el, origVariantTags)
	editEl := firstChildMatching(el, editVariantTags)

	var (
		origText, editText string
		err                error
	)

	if origEl != nil {
		origText, err = renderChildren(origEl, mode, c)
		if err != nil {
			return "", err
		}
	}

	if editEl != nil {
		editText, err = renderChildren(editEl, mode, c)
		if err != nil {
			return "", err
		}
	}

	if mode == ModeHTML {
		var origTooltip, editTooltip string

		if origEl != nil {
			origTooltip, err = renderChildren(origEl, ModeOrig, c)
			if err != nil {
				return "", err
			}
		}

		if editEl != nil {
			editTooltip, err = renderChildren(editEl, ModeEdit, c)
			if err != nil {
				return "", err
			}
		}

		return fmt.Sprintf(
			`<span class="orig" title="%s">%s</span><span class="edit" title="%s">%s</span>`,
			htmlAttrEscape(editTooltip), origText,
			htmlAttrEscape(origTooltip), editText,
		), nil
	}

	if mode == ModeOrig {
		return origText, nil
	}

	return editText, nil
}

// firstChildMatching returns el's first direct child whose local name
// appears in names, or nil.
func firstChildMatching(el *etree.Element, names []string) *etree.Element {
	for _, child := range el.ChildElements() {
		name := tei.LocalName(child)

		for _, want := range names {
			if name == want {
				return child
			}
		}
	}

	return nil
}
