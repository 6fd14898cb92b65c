package render

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// milestoneMarkers maps a milestone's @rendition to the plain-text glyph
// it stands in for: a span decorated by @rendition marking a dagger,
// asterisk, or blank anchor.
var milestoneMarkers = map[string]string{
	"#dagger":   "†",
	"#asterisk": "*",
}

// renderMilestonePlaceholder renders a milestone (anchor-role) child
// encountered mid-fragment.
func renderMilestonePlaceholder(el *etree.Element, mode Mode) string {
	id := tei.XMLID(el)
	marker := milestoneMarkers[tei.Attr(el, "rendition", "")]

	if mode == ModeHTML {
		return fmt.Sprintf(`<span class="milestone" id="%s">%s</span>`, htmlAttrEscape(id), htmlTextEscape(marker))
	}

	return marker
}
