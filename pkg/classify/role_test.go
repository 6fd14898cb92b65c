package classify_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/pkg/classify"
)

func parseFragment(t *testing.T, xmlSrc string) *etree.Element {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlSrc))

	return doc.Root()
}

func TestElementType_OrderedDispatch(t *testing.T) {
	root := parseFragment(t, `<div><p>hello<note place="margin">aside</note><pb n="1"/></p></div>`)

	require.Equal(t, classify.RoleStructural, classify.ElementType(root))

	p := root.ChildElements()[0]
	require.Equal(t, classify.RoleMain, classify.ElementType(p))

	note := p.ChildElements()[0]
	require.Equal(t, classify.RoleMarginal, classify.ElementType(note))

	pb := p.ChildElements()[1]
	require.Equal(t, classify.RolePage, classify.ElementType(pb))
}

func TestIsBasicElem(t *testing.T) {
	root := parseFragment(t, `<div><p>plain text</p><div><p>nested</p></div></div>`)

	divs := root.ChildElements()
	p := divs[0]
	nestedDiv := divs[1]

	require.True(t, classify.IsBasicElem(p))
	require.False(t, classify.IsBasicElem(nestedDiv))
}

func TestHasBasicAncestor(t *testing.T) {
	root := parseFragment(t, `<p>text <hi>emphasised</hi></p>`)

	hi := root.ChildElements()[0]
	require.True(t, classify.HasBasicAncestor(hi))
	require.False(t, classify.HasBasicAncestor(root))
}

func TestIsBasicListElem(t *testing.T) {
	root := parseFragment(t, `<list><item>leaf</item><item><list><item>nested</item></list></item></list>`)

	items := root.ChildElements()
	require.True(t, classify.IsBasicListElem(items[0]))
	require.False(t, classify.IsBasicListElem(items[1]))
}
