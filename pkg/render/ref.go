package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/classify"
	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// facsTarget splits a "facs:Wxxxx-nnnn" target into its work id and page
// number, or matches nothing.
var facsTarget = regexp.MustCompile(`^facs:([^-]+)-(\d+)$`)

// workTarget splits a "work:Wxxxx#id" target into the other work's id and
// the referenced element's xml:id.
var workTarget = regexp.MustCompile(`^work:([^#]+)#(.+)$`)

// renderRef resolves a ref@target through four schemes: a bare fragment
// ref resolves in-work, a work: ref resolves cross-work via the
// id-server, a facs: ref resolves to a same-work page node, and anything
// else is run through the document's prefixDef table.
// A ref containing a page break is split into two anchors bracketing it.
func renderRef(el *etree.Element, mode Mode, c *ctx) (string, error) {
	target := tei.Attr(el, "target", "")

	href, err := resolveRefTarget(target, el, c)
	if err != nil {
		return "", err
	}

	if pb := directPageBreakChild(el); pb != nil {
		return renderSplitRef(el, pb, href, mode, c)
	}

	inner, err := renderChildren(el, mode, c)
	if err != nil {
		return "", err
	}

	return wrapRefAnchor(href, inner, mode), nil
}

// directPageBreakChild returns el's direct page-role child, if any.
func directPageBreakChild(el *etree.Element) *etree.Element {
	for _, child := range el.ChildElements() {
		if classify.ElementType(child) == classify.RolePage {
			return child
		}
	}

	return nil
}

// renderSplitRef renders a ref that contains a page break as two anchors:
// everything before the break, the break's own inline placeholder, then
// everything after, each half wrapped in its own anchor so no anchor
// straddles the page boundary.
func renderSplitRef(el, pb *etree.Element, href string, mode Mode, c *ctx) (string, error) {
	var before, after strings.Builder

	seenBreak := false

	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			text := collapseWhitespace(t.Data)
			if mode == ModeHTML {
				text = htmlTextEscape(text)
			}

			if seenBreak {
				after.WriteString(text)
			} else {
				before.WriteString(text)
			}
		case *etree.Element:
			if t == pb {
				seenBreak = true

				continue
			}

			rendered, err := renderChild(t, mode, c)
			if err != nil {
				return "", err
			}

			if seenBreak {
				after.WriteString(rendered)
			} else {
				before.WriteString(rendered)
			}
		}
	}

	placeholder := renderPagePlaceholder(pb, mode, c)

	return wrapRefAnchor(href, before.String(), mode) + placeholder + wrapRefAnchor(href, after.String(), mode), nil
}

// wrapRefAnchor wraps text in an HTML anchor; plain text carries the text
// unchanged since it has no markup to hold an href.
func wrapRefAnchor(href, text string, mode Mode) string {
	if mode != ModeHTML {
		return text
	}

	return fmt.Sprintf(`<a href="%s">%s</a>`, htmlAttrEscape(href), text)
}

// resolveRefTarget dispatches a ref@target string to its citation URI or
// replacement-table expansion.
func resolveRefTarget(target string, el *etree.Element, c *ctx) (string, error) {
	switch {
	case strings.HasPrefix(target, "#"):
		return resolveFragmentRef(target[1:], c)
	case strings.HasPrefix(target, "work:"):
		return resolveWorkRef(target, c)
	case strings.HasPrefix(target, "facs:"):
		return resolveFacsRef(target, el, c)
	default:
		return resolvePrefixRef(target, c)
	}
}

// resolveFragmentRef resolves a local "#id" target to the in-work
// citation URI citation URI shape.
func resolveFragmentRef(id string, c *ctx) (string, error) {
	citetrail, ok := c.wc.CitetrailOf[id]
	if !ok {
		return "#" + id, nil
	}

	return citationURI(c.wc.IDServerBaseURL, c.wc.WorkID, citetrail), nil
}

// resolveWorkRef resolves a "work:Wxxxx#id" cross-work target against the
// id-server, without attempting to resolve id against this work's own
// identifier maps.
func resolveWorkRef(target string, c *ctx) (string, error) {
	m := workTarget.FindStringSubmatch(target)
	if m == nil {
		return "", fmt.Errorf("%w: malformed work ref target %q", ErrMarkupError, target)
	}

	work, id := m[1], m[2]

	return strings.TrimRight(c.wc.IDServerBaseURL, "/") + "/texts/" + work + ":" + id, nil
}

// resolveFacsRef resolves a "facs:Wxxxx-nnnn" target to the matching page
// node's citetrail within the same work; a facs target naming a different
// work is a markup error.
func resolveFacsRef(target string, el *etree.Element, c *ctx) (string, error) {
	m := facsTarget.FindStringSubmatch(target)
	if m == nil {
		return "", fmt.Errorf("%w: malformed facs ref target %q", ErrMarkupError, target)
	}

	work := m[1]
	if work != c.wc.WorkID {
		return "", fmt.Errorf("%w: facs ref %q targets a different work", ErrMarkupError, target)
	}

	root := documentRoot(el)

	page := root.FindElement(fmt.Sprintf(".//pb[@facs='%s']", target))
	if page == nil {
		return "", fmt.Errorf("%w: facs ref %q matches no page", ErrMarkupError, target)
	}

	id := tei.XMLID(page)

	citetrail, ok := c.wc.CitetrailOf[id]
	if !ok {
		return "", fmt.Errorf("%w: facs ref %q page not yet resolved", ErrMarkupError, target)
	}

	return citationURI(c.wc.IDServerBaseURL, c.wc.WorkID, citetrail), nil
}

// resolvePrefixRef applies the document's teiHeader prefixDef table: the
// first definition whose MatchRegex matches target wins, and its Replace
// pattern (with regexp capture-group substitution) becomes the href.
func resolvePrefixRef(target string, c *ctx) (string, error) {
	for _, pd := range c.wc.Prefixes {
		re, err := regexp.Compile(pd.MatchRegex)
		if err != nil || pd.MatchRegex == "" {
			continue
		}

		if re.MatchString(target) {
			return re.ReplaceAllString(target, pd.Replace), nil
		}
	}

	return target, nil
}

// citationURI builds the {id-server}/texts/{work-id}:{citetrail} URI
// shape used for cross-work and id-server-resolved references.
func citationURI(base, workID, citetrail string) string {
	return strings.TrimRight(base, "/") + "/texts/" + workID + ":" + citetrail
}

// documentRoot walks up from el to the outermost ancestor element, used to
// search the whole document for a facs-matching page when the current
// fragment root does not contain it.
func documentRoot(el *etree.Element) *etree.Element {
	root := el

	for p := root.Parent(); p != nil; p = p.Parent() {
		root = p
	}

	return root
}
