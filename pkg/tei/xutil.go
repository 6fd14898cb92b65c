package tei

import (
	"strings"

	"github.com/beevik/etree"
)

// XMLID returns the element's xml:id attribute, or "" if absent.
func XMLID(el *etree.Element) string {
	return el.SelectAttrValue("id", "")
}

// Attr returns the value of a plain (non-namespaced) attribute, or fallback
// if the attribute is absent.
func Attr(el *etree.Element, key, fallback string) string {
	return el.SelectAttrValue(key, fallback)
}

// ListType returns the effective @type of a <list>, defaulting to "simple"
// when unset, mirroring how unordered prose lists render without markers.
func ListType(el *etree.Element) string {
	t := el.SelectAttrValue("type", "")
	if t == "" {
		return "simple"
	}

	return t
}

// CopyAttributes copies every attribute from src onto dst, overwriting
// duplicates. Used by the assembler when re-wrapping a subtree in its
// ancestor chain.
func CopyAttributes(dst, src *etree.Element) {
	for _, a := range src.Attr {
		dst.CreateAttr(qualifiedName(a), a.Value)
	}
}

func qualifiedName(a etree.Attr) string {
	if a.Space == "" {
		return a.Key
	}

	return a.Space + ":" + a.Key
}

// LocalName returns an element's tag without any namespace prefix.
func LocalName(el *etree.Element) string {
	if idx := strings.IndexByte(el.Tag, ':'); idx >= 0 {
		return el.Tag[idx+1:]
	}

	return el.Tag
}

// ChildElements returns the direct element children of el, skipping text
// and comment nodes.
func ChildElements(el *etree.Element) []*etree.Element {
	return el.ChildElements()
}

// Ancestors returns el's ancestor chain, nearest parent first, root last.
func Ancestors(el *etree.Element) []*etree.Element {
	var chain []*etree.Element

	for p := el.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}

	return chain
}

// PrecedingSiblings returns el's element siblings that occur before it in
// document order.
func PrecedingSiblings(el *etree.Element) []*etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}

	var out []*etree.Element

	for _, sib := range parent.ChildElements() {
		if sib == el {
			break
		}

		out = append(out, sib)
	}

	return out
}

// FollowingSiblings returns el's element siblings that occur after it in
// document order.
func FollowingSiblings(el *etree.Element) []*etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}

	found := false

	var out []*etree.Element

	for _, sib := range parent.ChildElements() {
		if found {
			out = append(out, sib)

			continue
		}

		if sib == el {
			found = true
		}
	}

	return out
}

// TextContent returns the text of el and all of its descendants, every text
// node concatenated in document order with no separator added, regardless
// of intervening markup.
func TextContent(el *etree.Element) string {
	var sb strings.Builder

	var walk func(tok etree.Token)

	walk = func(tok etree.Token) {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			for _, c := range t.Child {
				walk(c)
			}
		}
	}

	for _, c := range el.Child {
		walk(c)
	}

	return sb.String()
}
