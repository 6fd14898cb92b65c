package assemble_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/pkg/assemble"
	"github.com/salamanca-digital/citetrail/pkg/index"
	"github.com/salamanca-digital/citetrail/pkg/tei"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

func parseFragment(t *testing.T, xmlSrc string) *etree.Element {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlSrc))

	return doc.Root()
}

func TestAssemble_ScenarioOne(t *testing.T) {
	root := parseFragment(t, `<div type="chapter" xml:id="c1"><p xml:id="p1">Hello<choice><abbr>wld</abbr><expan>world</expan></choice>.</p></div>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)

	index.NewResolver().Resolve(node, wc)

	frags, err := assemble.New(wc).Assemble(node)
	require.NoError(t, err)
	require.Len(t, frags, 2)

	chapter := frags[0]
	require.Equal(t, "c1", chapter.ID)
	require.False(t, chapter.Basic)
	require.Empty(t, chapter.TxtOrig)

	p := frags[1]
	require.Equal(t, "p1", p.ID)
	require.True(t, p.Basic)
	require.Equal(t, "Hello wld.", p.TxtOrig)
	require.Equal(t, "Hello world.", p.TxtEdit)
	require.Contains(t, p.HTML, `class="orig"`)
	require.NotEmpty(t, p.Markup)
}

func TestAssemble_MembersAreIDs(t *testing.T) {
	root := parseFragment(t, `<list type="numbered" xml:id="l1"><item xml:id="i1">A</item><item xml:id="i2">B</item></list>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)

	index.NewResolver().Resolve(node, wc)

	frags, err := assemble.New(wc).Assemble(node)
	require.NoError(t, err)

	list := frags[0]
	require.ElementsMatch(t, []string{"i1", "i2"}, list.Members)
}

func TestWrap_ReproducesAncestorChain(t *testing.T) {
	root := parseFragment(t, `<div type="chapter" xml:id="c1" n="2"><p xml:id="p1">text</p></div>`)
	p := root.FindElement(".//p")

	out, err := assemble.Wrap(p)
	require.NoError(t, err)

	reparsed := etree.NewDocument()
	require.NoError(t, reparsed.ReadFromString(out))

	inner := reparsed.FindElement(".//p")
	require.NotNil(t, inner)
	require.Equal(t, "p1", inner.SelectAttrValue("id", ""))

	outer := reparsed.Root()
	require.Equal(t, "div", outer.Tag)
	require.Equal(t, "2", outer.SelectAttrValue("n", ""))
}
