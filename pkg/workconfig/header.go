package workconfig

import "github.com/beevik/etree"

// LoadFromHeader populates wc's Glyphs and Prefixes from the document's
// teiHeader, reading <charDecl>/<char> and <encodingDesc>/<prefixDef>.
// Absent elements leave the existing defaults untouched.
func (wc *WorkConfig) LoadFromHeader(root *etree.Element) {
	header := root.FindElement(".//teiHeader")
	if header == nil {
		return
	}

	for _, char := range header.FindElements(".//charDecl/char") {
		id := char.SelectAttrValue("id", "")
		if id == "" {
			continue
		}

		g := Glyph{ID: id}

		if mc := char.FindElement("mapping[@type='standardized']"); mc != nil {
			g.Standardized = mc.Text()
		}

		if mc := char.FindElement("mapping[@type='precomposed']"); mc != nil {
			g.Precomposed = mc.Text()
		}

		if mc := char.FindElement("mapping[@type='composed']"); mc != nil {
			g.Composed = mc.Text()
		}

		wc.Glyphs[id] = g
	}

	for _, pd := range header.FindElements(".//prefixDef") {
		ident := pd.SelectAttrValue("ident", "")
		if ident == "" {
			continue
		}

		wc.Prefixes[ident] = PrefixDef{
			Ident:      ident,
			MatchRegex: pd.SelectAttrValue("matchPattern", ""),
			Replace:    pd.SelectAttrValue("replacementPattern", ""),
		}
	}
}
