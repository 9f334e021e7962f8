package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighbors_Edges(t *testing.T) {
	tree := Build(scenarioIndex(t))
	flat := Flatten(tree)
	require.Len(t, flat, 3)

	first := Neighbors(tree, flat[0].Slug)
	assert.Nil(t, first.Previous)
	require.NotNil(t, first.Next)
	assert.Equal(t, flat[1], *first.Next)

	last := Neighbors(tree, flat[2].Slug)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Equal(t, flat[1], *last.Previous)
}

func TestNeighbors_SingleDocument(t *testing.T) {
	tree := Build(loadTree(t, map[string]string{"only.md": "# Only\n"}))

	p := Neighbors(tree, "only")
	assert.Nil(t, p.Previous)
	assert.Nil(t, p.Next)
}

func TestNeighbors_UnknownSlug(t *testing.T) {
	tree := Build(scenarioIndex(t))

	for _, slug := range []string{"missing", "guide", "GUIDE/advanced", "guide/advanced/"} {
		assert.Equal(t, Pager{}, Neighbors(tree, slug), slug)
	}
}

func TestNeighbors_Symmetry(t *testing.T) {
	tree := Build(loadTree(t, map[string]string{
		"README.md":         "",
		"a.md":              "",
		"b/README.md":       "",
		"b/one.md":          "---\norder: 2\n---\n",
		"b/two.md":          "---\norder: 1\n---\n",
		"b/deeper/three.md": "",
		"c.md":              "",
	}))
	flat := Flatten(tree)
	require.Len(t, flat, 7)

	for i := 0; i+1 < len(flat); i++ {
		a, b := flat[i], flat[i+1]
		next := Neighbors(tree, a.Slug).Next
		prev := Neighbors(tree, b.Slug).Previous
		require.NotNil(t, next)
		require.NotNil(t, prev)
		assert.Equal(t, b, *next)
		assert.Equal(t, a, *prev)
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	tree := &Node{Kind: KindCategory, Children: []*Node{
		{Kind: KindLeaf, Slug: "x"},
		{Kind: KindCategory, PathPrefix: "y", Children: []*Node{
			{Kind: KindLeaf, Slug: "y"},
			{Kind: KindCategory, PathPrefix: "y/z", Children: []*Node{
				{Kind: KindLeaf, Slug: "y/z/1"},
			}},
			{Kind: KindLeaf, Slug: "y/2"},
		}},
		{Kind: KindLeaf, Slug: "w"},
	}}

	assert.Equal(t, []string{"x", "y", "y/z/1", "y/2", "w"}, slugsOf(Flatten(tree)))
	assert.Empty(t, Flatten(nil))
}
