package render

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// renderMarginalPlaceholder renders a marginal (note[@place=margin] or
// label[@place=margin]) child encountered mid-fragment: an empty anchor
// span in HTML, and a stable {%note:ID%} token in plain text that a
// downstream layout step may replace with the note's content. The note's
// own content is rendered separately and appended to c.notes so HTML
// output can also emit a standalone rendered note block.
func renderMarginalPlaceholder(el *etree.Element, mode Mode, c *ctx) (string, error) {
	id := tei.XMLID(el)

	noteHTML, err := renderChildren(el, ModeHTML, c)
	if err != nil {
		return "", err
	}

	c.notes = append(c.notes, renderedNote{id: id, html: noteHTML})

	if mode == ModeHTML {
		return fmt.Sprintf(`<a class="note-anchor" href="#note-%s" id="note-ref-%s"></a>`,
			htmlAttrEscape(id), htmlAttrEscape(id)), nil
	}

	return "{%note:" + id + "%}", nil
}

// renderNoteBlocks renders the accumulated marginal notes as standalone
// HTML note blocks, for appending after a fragment's main HTML content.
func renderNoteBlocks(notes []renderedNote) string {
	if len(notes) == 0 {
		return ""
	}

	out := `<div class="notes">`

	for _, n := range notes {
		out += fmt.Sprintf(`<div class="note" id="note-%s">%s</div>`, htmlAttrEscape(n.id), n.html)
	}

	return out + `</div>`
}
