package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/pkg/render"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

func parseFragment(t *testing.T, xml string) *tei.Document {
	t.Helper()

	doc, err := tei.Parse(bytes.NewReader([]byte(xml)), t.TempDir())
	require.NoError(t, err)

	return doc
}

func newWorkConfig() *workconfig.WorkConfig {
	wc := workconfig.New("W0001")
	wc.IDServerBaseURL = "https://id.example"
	wc.IIIFBaseURL = "https://images.example/iiif/image"

	return wc
}

func TestFragment_Choice(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1">Hello<choice><abbr>wld</abbr><expan>world</expan></choice>.</p>`)
	wc := newWorkConfig()

	txtOrig, txtEdit, html, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)

	assert.Equal(t, "Hello wld.", txtOrig)
	assert.Equal(t, "Hello world.", txtEdit)
	assert.Contains(t, html, `class="orig"`)
	assert.Contains(t, html, `class="edit"`)
}

func TestFragment_Glyph_Standardized(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1"><g ref="#char017f">ſ</g></p>`)
	wc := newWorkConfig()
	wc.Glyphs["char017f"] = workconfig.Glyph{ID: "char017f", Standardized: "s", Precomposed: "ſ", Composed: "ſ"}

	_, txtEdit, _, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)
	assert.Equal(t, "s", txtEdit)
}

func TestFragment_Glyph_EmptyText_IsMarkupError(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1"><g ref="#char017f"></g></p>`)
	wc := newWorkConfig()

	_, _, _, err := render.Fragment(doc.Root(), wc)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrMarkupError)
}

func TestFragment_Ref_FragmentTarget(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p2"><ref target="#p1">see</ref></p>`)
	wc := newWorkConfig()
	wc.CitetrailOf["p1"] = "cap.1.1"

	_, _, html, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)
	assert.Contains(t, html, `href="https://id.example/texts/W0001:cap.1.1"`)
}

func TestFragment_Ref_CrossWorkFacs_Fails(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p2"><ref target="facs:W0002-0005">see</ref></p>`)
	wc := newWorkConfig()

	_, _, _, err := render.Fragment(doc.Root(), wc)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrMarkupError)
}

func TestFragment_Del_WithoutSupplied_Fails(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1">a<del>b</del>c</p>`)
	wc := newWorkConfig()

	_, _, _, err := render.Fragment(doc.Root(), wc)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrMarkupError)
}

func TestFragment_UnknownElement_Fails(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1"><weirdBlockThing><x/><y/></weirdBlockThing></p>`)
	wc := newWorkConfig()

	_, _, _, err := render.Fragment(doc.Root(), wc)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownElement)
}

func TestFragment_PagePlaceholder_Inline(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1">a<pb xml:id="pb1" n="5"/>b</p>`)
	wc := newWorkConfig()

	txtOrig, _, html, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)
	assert.Equal(t, "a|b", txtOrig)
	assert.Contains(t, html, `class="page-break"`)
}

func TestFragment_MarginalPlaceholder_Token(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1">a<note xml:id="n1" place="margin">gloss</note>b</p>`)
	wc := newWorkConfig()

	txtOrig, _, html, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)
	assert.Contains(t, txtOrig, "{%note:n1%}")
	assert.Contains(t, html, `class="notes"`)
}

func TestFragment_SuppressPlaceholders_DropsPageAndMarginal(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1">a<pb xml:id="pb1" n="5"/>b<note xml:id="n1" place="margin">gloss</note>c</p>`)
	wc := newWorkConfig()
	wc.SuppressPlaceholders = true

	txtOrig, _, html, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)
	assert.Equal(t, "abc", txtOrig)
	assert.NotContains(t, html, `class="page-break"`)
	assert.NotContains(t, html, "{%note:n1%}")
}

func TestFragment_Item_Ordered(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<list type="ordered"><item xml:id="i1">A</item><item xml:id="i2">B</item></list>`)
	wc := newWorkConfig()

	item2 := doc.Root().ChildElements()[1]

	txtOrig, _, _, err := render.Fragment(item2, wc)
	require.NoError(t, err)
	assert.Equal(t, "2. B", txtOrig)
}

func TestFragment_Hi_RenditionClasses(t *testing.T) {
	t.Parallel()

	doc := parseFragment(t, `<p xml:id="p1"><hi rendition="#b #it">strong</hi></p>`)
	wc := newWorkConfig()

	_, _, html, err := render.Fragment(doc.Root(), wc)
	require.NoError(t, err)
	assert.Contains(t, html, "bold")
	assert.Contains(t, html, "italic")
}
