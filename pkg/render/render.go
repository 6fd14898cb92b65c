package render

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// Fragment renders a single basic node's TEI subtree into the three forms
// the assembler needs: original-reading plain text, edited-reading plain
// text, and presentation HTML. Called exactly once per basic node named
// by the index; structural nodes are titled, not rendered, and never
// reach this function.
func Fragment(el *etree.Element, wc *workconfig.WorkConfig) (txtOrig, txtEdit, html string, err error) {
	origCtx := &ctx{wc: wc, root: el}

	origText, err := renderElement(el, ModeOrig, origCtx)
	if err != nil {
		return "", "", "", err
	}

	editCtx := &ctx{wc: wc, root: el}

	editText, err := renderElement(el, ModeEdit, editCtx)
	if err != nil {
		return "", "", "", err
	}

	htmlCtx := &ctx{wc: wc, root: el}

	htmlBody, err := renderElement(el, ModeHTML, htmlCtx)
	if err != nil {
		return "", "", "", err
	}

	html = htmlBody + renderNoteBlocks(htmlCtx.notes)

	return strings.TrimSpace(origText), strings.TrimSpace(editText), html, nil
}
