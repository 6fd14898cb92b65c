package index_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/pkg/index"
	"github.com/salamanca-digital/citetrail/pkg/workconfig"
)

func parseFragment(t *testing.T, xmlSrc string) *etree.Element {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlSrc))

	return doc.Root()
}

func TestIndexer_KeepsNestedPageAsOwnNode(t *testing.T) {
	root := parseFragment(t, `<div type="chapter" xml:id="c1">
		<p xml:id="p1">first paragraph</p>
		<pb xml:id="pb1" n="2"/>
		<p xml:id="p2">second paragraph</p>
	</div>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)
	require.Len(t, node.Children, 3)
	require.True(t, node.Children[0].Basic)
	require.False(t, node.Children[1].Basic)
	require.True(t, node.Children[2].Basic)
}

func TestIndexer_SingleNodeRequired(t *testing.T) {
	root := parseFragment(t, `<body><pb xml:id="pb1" n="1"/></body>`)

	_, err := index.NewIndexer(workconfig.New("W0001")).Build(root)
	require.Error(t, err)
}

func TestResolver_AssignsDottedCitetrails(t *testing.T) {
	root := parseFragment(t, `<div type="question" xml:id="q1">
		<p xml:id="p1">alpha</p>
		<p xml:id="p2">beta</p>
	</div>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)

	index.NewResolver().Resolve(node, wc)

	require.Equal(t, "q.1", node.Citetrail)
	require.Equal(t, "q.1.1", node.Children[0].Citetrail)
	require.Equal(t, "q.1.2", node.Children[1].Citetrail)
}

func TestResolver_LinksSameTypeSiblings(t *testing.T) {
	root := parseFragment(t, `<front xml:id="front1">
		<div type="section" xml:id="s1"><p xml:id="p1">one</p></div>
		<div type="section" xml:id="s2"><p xml:id="p2">two</p></div>
	</front>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)

	index.NewResolver().Resolve(node, wc)

	require.Nil(t, node.Children[0].Prev)
	require.Same(t, node.Children[0], node.Children[1].Prev)
	require.Same(t, node.Children[1], node.Children[0].Next)
	require.Nil(t, node.Children[1].Next)
}

func TestResolver_MembersFollowCitetrailParent(t *testing.T) {
	root := parseFragment(t, `<div type="list_wrap" xml:id="w1">
		<list xml:id="l1"><item xml:id="i1">a</item><item xml:id="i2">b</item></list>
	</div>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)

	index.NewResolver().Resolve(node, wc)

	listNode := node.Children[0]
	require.Len(t, listNode.Members, 2)
	require.Equal(t, "i1", listNode.Members[0].ID)
	require.Equal(t, "i2", listNode.Members[1].ID)
	require.Equal(t, "1.1.1", listNode.Members[0].Citetrail)
	require.Equal(t, "1.1.2", listNode.Members[1].Citetrail)
}

func TestResolver_PageCitetrailDisambiguation(t *testing.T) {
	root := parseFragment(t, `<front xml:id="front1">
		<pb xml:id="pb1" n="5" facs="facs:W0001-0005"/>
		<pb xml:id="pb2" n="5" facs="facs:W0001-0006"/>
	</front>`)

	wc := workconfig.New("W0001")

	node, err := index.NewIndexer(wc).Build(root)
	require.NoError(t, err)

	index.NewResolver().Resolve(node, wc)

	require.Equal(t, "frontmatter.p5-1", node.Children[0].Citetrail)
	require.Equal(t, "frontmatter.p5-2", node.Children[1].Citetrail)
}
