package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/classify"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// ctx threads render-time state through a dispatch call: the work
// configuration (glyphs, prefixes, citetrail maps), the root element of
// the basic node currently being rendered (used to tell "am I still
// inside the fragment I was asked to render" from "have I crossed into a
// sibling fragment"), and any marginal notes encountered along the way,
// collected for separate HTML note blocks
type ctx struct {
	wc    *workconfig.WorkConfig
	root  *etree.Element
	notes []renderedNote
}

type renderedNote struct {
	id   string
	html string
}

// passThroughTags are elements with no citable role and no special
// rendering rule of their own: their content is rendered in place, the
// element itself contributing only an HTML wrapper span named after its
// tag. This covers the bulk of ordinary TEI running-text markup, plus the
// main/marginal/list-role tags themselves whenever they occur nested
// (which only happens when the classifier's ancestor guard already
// disqualified them from an independent role, so they are always
// transparent in that position).
var passThroughTags = map[string]bool{
	"p": true, "signed": true, "titlePage": true, "lg": true, "l": true,
	"label": true, "argument": true, "table": true, "row": true, "cell": true,
	"list": true,
	"emph": true, "foreign": true, "quote": true, "seg": true, "add": true,
	"corr": true, "sic": true, "abbr": true, "expan": true, "reg": true,
	"orig": true, "unclear": true, "damage": true, "gap": true, "num": true,
	"name": true, "persName": true, "placeName": true, "orgName": true,
	"date": true, "time": true, "bibl": true, "title": true, "term": true,
	"supplied": true, "surplus": true, "note": true,
}

// specialHandlers dispatches by local tag name to an element's bespoke
// rendering rule. Consulted before passThroughTags.
var specialHandlers = map[string]func(el *etree.Element, mode Mode, c *ctx) (string, error){
	"choice": renderChoice,
	"g":      renderGlyph,
	"hi":     renderHi,
	"ref":    renderRef,
	"del":    renderDel,
	"lb":     renderLineBreak,
	"cb":     renderLineBreak,
	"item":   renderItem,
	"head":   renderHead,
}

// renderChildren renders el's content (text and element children) in
// document order, stopping to emit inline placeholders at page, anchor,
// and marginal boundaries rather than descending into them.
func renderChildren(el *etree.Element, mode Mode, c *ctx) (string, error) {
	var sb strings.Builder

	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			text := collapseWhitespace(t.Data)
			if mode == ModeHTML {
				text = htmlTextEscape(text)
			}

			sb.WriteString(text)
		case *etree.Element:
			rendered, err := renderChild(t, mode, c)
			if err != nil {
				return "", err
			}

			sb.WriteString(rendered)
		default:
			// Comments and processing instructions carry no content.
		}
	}

	return sb.String(), nil
}

// renderChild renders a single element child of the node currently being
// expanded, applying the page/anchor/marginal boundary rule before
// falling through to ordinary dispatch. When c.wc.SuppressPlaceholders is
// set, page and marginal boundaries are dropped entirely rather than
// rendered as inline placeholders — the documentation pipeline variant
// has no use for page/marginalia anchors in its running text.
func renderChild(el *etree.Element, mode Mode, c *ctx) (string, error) {
	switch classify.ElementType(el) {
	case classify.RolePage:
		if c.wc.SuppressPlaceholders {
			return "", nil
		}

		return renderPagePlaceholder(el, mode, c), nil
	case classify.RoleAnchor:
		return renderMilestonePlaceholder(el, mode), nil
	case classify.RoleMarginal:
		if c.wc.SuppressPlaceholders {
			return "", nil
		}

		return renderMarginalPlaceholder(el, mode, c)
	default:
		return renderElement(el, mode, c)
	}
}

// renderElement dispatches a non-boundary element to its special handler
// or, failing that, to transparent pass-through; an element matching
// neither fails with ErrUnknownElement.
func renderElement(el *etree.Element, mode Mode, c *ctx) (string, error) {
	name := tei.LocalName(el)

	if handler, ok := specialHandlers[name]; ok {
		return handler(el, mode, c)
	}

	if passThroughTags[name] {
		inner, err := renderChildren(el, mode, c)
		if err != nil {
			return "", err
		}

		return wrapHTML(name, el, mode, inner), nil
	}

	if isTextContentElement(el) {
		return renderChildren(el, mode, c)
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownElement, el.Tag)
}

// isTextContentElement is the fallback pass-through test for elements on
// no explicit list: an element with no element children at all is
// considered text-content and rendered transparently.
func isTextContentElement(el *etree.Element) bool {
	return len(el.ChildElements()) == 0
}

// wrapHTML wraps inner in a tag-named span for HTML mode; plain-text modes
// return inner unchanged, since citetrail's text outputs carry no markup.
func wrapHTML(tag string, el *etree.Element, mode Mode, inner string) string {
	if mode != ModeHTML {
		return inner
	}

	if inner == "" {
		return ""
	}

	return fmt.Sprintf(`<span class="%s">%s</span>`, tag, inner)
}

// renderDel renders a del element, which must carry a nested supplied
// reconstruction; citetrail treats a del with no supplied child
// as malformed markup-error taxonomy.
func renderDel(el *etree.Element, mode Mode, c *ctx) (string, error) {
	hasSupplied := false

	for _, child := range el.ChildElements() {
		if tei.LocalName(child) == "supplied" {
			hasSupplied = true

			break
		}
	}

	if !hasSupplied {
		return "", fmt.Errorf("%w: del without supplied child", ErrMarkupError)
	}

	inner, err := renderChildren(el, mode, c)
	if err != nil {
		return "", err
	}

	return wrapHTML("del", el, mode, inner), nil
}

// renderHead renders a head element. A head is only ever a legitimate
// basic node in its own right (the fragment's own root): main-role when
// not under a list, list-role when under one. A head reached any other
// way — nested inside another basic node's content — has no recognized
// rendering context and is a markup error.
func renderHead(el *etree.Element, mode Mode, c *ctx) (string, error) {
	if el != c.root {
		return "", fmt.Errorf("%w: head in unrecognized context", ErrMarkupError)
	}

	inner, err := renderChildren(el, mode, c)
	if err != nil {
		return "", err
	}

	return wrapHTML("head", el, mode, inner), nil
}

// renderLineBreak renders lb/cb: a point break in the running text with no
// textual content of its own.
func renderLineBreak(_ *etree.Element, mode Mode, _ *ctx) (string, error) {
	if mode == ModeHTML {
		return "<br/>", nil
	}

	return "\n", nil
}

// collapseWhitespace reduces any run of whitespace to a single space.
// Leading/trailing space is preserved so that word boundaries across
// element boundaries are not accidentally joined; callers that need a
// fully trimmed string call strings.TrimSpace on the final assembled
// fragment.
func collapseWhitespace(s string) string {
	var b strings.Builder

	lastWasSpace := false

	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}

			lastWasSpace = true

			continue
		}

		b.WriteRune(r)
		lastWasSpace = false
	}

	return b.String()
}
