package render

import (
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

// longGlyphRefs names the two @ref values whose standardized form may
// legitimately be reached through normalization even when the literal
// text is not a byte-for-byte match for the charDecl's
// precomposed/composed mapping.
var longGlyphRefs = map[string]bool{
	"#char017f": true, // long s (ſ)
	"#char0292": true, // long z
}

// renderGlyph renders a g element against its charDecl entry in
// wc.Glyphs. A g with no text content is malformed.
func renderGlyph(el *etree.Element, mode Mode, c *ctx) (string, error) {
	literal := tei.TextContent(el)
	if literal == "" {
		return "", fmt.Errorf("%w: g element has no text", ErrMarkupError)
	}

	ref := tei.Attr(el, "ref", "")

	glyph, known := c.wc.Glyphs[glyphKey(ref)]
	if !known {
		return glyphText(literal, literal, mode), nil
	}

	if glyphMatches(literal, glyph) {
		if longGlyphRefs[ref] {
			return glyphText(literal, glyph.Standardized, mode), nil
		}

		// A recognized glyph outside the long-s/long-z family renders
		// identically in both readings: there is no separate
		// standardized form to prefer in edit mode.
		return glyphText(literal, literal, mode), nil
	}

	// The literal text does not match the charDecl's precomposed/composed
	// form and the glyph is not long-s/long-z: treat it as an ad-hoc
	// editorial expansion (the SUPPLEMENTED glyph branch), showing the
	// original form hidden and the expansion visible.
	return glyphExpansionText(literal, glyph.Standardized, mode), nil
}

// glyphKey normalizes a g@ref value ("#char017f" or "char017f") to the
// bare charDecl @xml:id used as the Glyphs map key.
func glyphKey(ref string) string {
	if len(ref) > 0 && ref[0] == '#' {
		return ref[1:]
	}

	return ref
}

// glyphMatches reports whether literal equals glyph's precomposed or
// composed form under either NFC or NFD normalization, since accented
// Latin glyphs in real TEI editions round-trip through more than one
// Unicode normal form.
func glyphMatches(literal string, glyph workconfig.Glyph) bool {
	return normalizedEqual(literal, glyph.Precomposed) || normalizedEqual(literal, glyph.Composed)
}

func normalizedEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	aNFC, aNFD := norm.NFC.String(a), norm.NFD.String(a)
	bNFC, bNFD := norm.NFC.String(b), norm.NFD.String(b)

	return aNFC == bNFC || aNFC == bNFD || aNFD == bNFC || aNFD == bNFD
}

// glyphText renders a recognized glyph: orig mode shows the literal form,
// edit mode shows standardized, HTML shows both spans like choice.
func glyphText(literal, standardized string, mode Mode) string {
	switch mode {
	case ModeOrig:
		return literal
	case ModeEdit:
		return standardized
	default:
		return fmt.Sprintf(
			`<span class="orig" title="%s">%s</span><span class="edit" title="%s">%s</span>`,
			htmlAttrEscape(standardized), htmlTextEscape(literal),
			htmlAttrEscape(literal), htmlTextEscape(standardized),
		)
	}
}

// glyphExpansionText renders the ad-hoc editorial-expansion branch: the
// original glyph is hidden, the expansion is what readers see, in both
// plain-text readings and in HTML (where the original survives as a
// tooltip on a hidden span for accessibility tooling).
func glyphExpansionText(literal, expansion string, mode Mode) string {
	if expansion == "" {
		expansion = literal
	}

	switch mode {
	case ModeOrig, ModeEdit:
		return expansion
	default:
		return fmt.Sprintf(
			`<span class="glyph-orig" hidden="hidden" title="%s"></span><span class="glyph-expan">%s</span>`,
			htmlAttrEscape(literal), htmlTextEscape(expansion),
		)
	}
}
