package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// singleVolumeFacs matches a single-volume facs value: "facs:W0001-0005".
var singleVolumeFacs = regexp.MustCompile(`^facs:([A-Za-z0-9]+)-(\w+)$`)

// multiVolumeFacs matches a multi-volume facs value: "facs:W0001-II-0005".
var multiVolumeFacs = regexp.MustCompile(`^facs:([A-Za-z0-9]+)-([A-Za-z0-9]+)-(\w+)$`)

// renderPagePlaceholder renders a pb child encountered mid-fragment: an
// empty span identifying the page, with plain text inserting a "|"
// separator unless the placeholder falls at a fragment boundary.
func renderPagePlaceholder(el *etree.Element, mode Mode, c *ctx) string {
	id := tei.XMLID(el)

	if mode == ModeHTML {
		return fmt.Sprintf(`<span class="page-break" id="%s"></span>`, htmlAttrEscape(id))
	}

	if isAtFragmentBoundary(el, c.root) {
		return ""
	}

	return "|"
}

// isAtFragmentBoundary reports whether el has no renderable sibling
// content before or after it under its parent, so the plain-text
// page separator would otherwise produce a leading or trailing "|".
func isAtFragmentBoundary(el, root *etree.Element) bool {
	return !hasRenderableSibling(el, true) || !hasRenderableSibling(el, false)
}

// hasRenderableSibling reports whether el has a preceding (before=true) or
// following (before=false) sibling token under its own parent that carries
// text: a non-blank text node or an element with text content. Content at
// higher ancestor levels is not examined.
func hasRenderableSibling(el *etree.Element, before bool) bool {
	parent := el.Parent()
	if parent == nil {
		return false
	}

	idx := el.Index()
	siblings := parent.Child[idx+1:]
	if before {
		siblings = parent.Child[:idx]
	}

	for _, tok := range siblings {
		text := ""
		if cd, ok := tok.(*etree.CharData); ok {
			text = cd.Data
		} else if sib, ok := tok.(*etree.Element); ok {
			text = tei.TextContent(sib)
		}

		if strings.TrimSpace(text) != "" {
			return true
		}
	}

	return false
}

// PageBlock renders a page's block-level link: a label ("p. N" or
// "fol. N"), a tooltip, and an image URL derived from @facs. Exposed for
// callers (the assembler or the pipeline's page-index view) that need a
// standalone page-link representation beyond the inline placeholder used
// mid-fragment.
func PageBlock(el *etree.Element, wc *workconfig.WorkConfig) (label, imageURL string, err error) {
	n := tei.Attr(el, "n", "")

	if strings.HasPrefix(n, "fol.") {
		label = n
	} else if n != "" {
		label = "p. " + n
	} else {
		label = "p. ?"
	}

	facs := tei.Attr(el, "facs", "")

	imageURL, err = iiifImageURL(facs, wc.IIIFBaseURL)
	if err != nil {
		return "", "", err
	}

	return label, imageURL, nil
}

// iiifImageURL derives a IIIF image request URL from a pb's @facs value,
// covering both the single-volume and multi-volume facs shapes.
func iiifImageURL(facs, base string) (string, error) {
	base = strings.TrimRight(base, "/")

	if m := multiVolumeFacs.FindStringSubmatch(facs); m != nil {
		work, vol, folio := m[1], m[2], m[3]

		return fmt.Sprintf("%s/%s!%s!%s-%s-%s/full/full/0/default.jpg", base, work, vol, work, vol, folio), nil
	}

	if m := singleVolumeFacs.FindStringSubmatch(facs); m != nil {
		work, folio := m[1], m[2]

		return fmt.Sprintf("%s/%s!%s-%s/full/full/0/default.jpg", base, work, work, folio), nil
	}

	return "", fmt.Errorf("%w: unrecognized facs shape %q", ErrMarkupError, facs)
}
