package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/models"
)

func page(slug string, order int, title string) *models.Page {
	var s []string
	if slug != "" {
		s = splitPath(slug)
	} else {
		s = []string{}
	}
	o := order
	return &models.Page{Slug: s, Metadata: models.Metadata{Title: title, Order: &o}}
}

func unordered(slug, title string) *models.Page {
	p := page(slug, 0, title)
	p.Metadata.Order = nil
	return p
}

func titles(nodes []*models.NavNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func TestBuildNavigationTree_Grouping(t *testing.T) {
	pages := []*models.Page{
		page("guides/setup", 2, "Setup"),
		page("guides", 2, "Guides"),
		page("intro", 1, "Intro"),
		page("guides/install", 1, "Install"),
		page("guides/install/linux", 1, "Linux"),
	}
	tree := BuildNavigationTree(pages)

	require.Equal(t, []string{"Intro", "Guides"}, titles(tree))
	guides := tree[1]
	assert.Equal(t, "/guides", guides.Href)
	require.Equal(t, []string{"Install", "Setup"}, titles(guides.Children))
	require.Equal(t, []string{"Linux"}, titles(guides.Children[0].Children))
	assert.Equal(t, "/guides/install/linux", guides.Children[0].Children[0].Href)
}

func TestBuildNavigationTree_SidebarTitleAndRoot(t *testing.T) {
	root := page("", 0, "Home")
	withSidebar := page("api", 5, "API Reference")
	withSidebar.Metadata.SidebarTitle = "API"
	tree := BuildNavigationTree([]*models.Page{withSidebar, root})

	require.Len(t, tree, 2)
	assert.Equal(t, "Home", tree[0].Title)
	assert.Equal(t, "/", tree[0].Href)
	assert.Equal(t, "API", tree[1].Title)
}

func TestBuildNavigationTree_OrphanFallsBackToTopLevel(t *testing.T) {
	pages := []*models.Page{
		page("guides", 1, "Guides"),
		page("guides/missing-parent/child", 1, "Child"),
	}
	tree := BuildNavigationTree(pages)
	require.Len(t, tree, 1)
	assert.Equal(t, []string{"Child"}, titles(tree[0].Children))
}

func TestBuildNavigationTree_OrphanWithoutTopLevelDropped(t *testing.T) {
	pages := []*models.Page{
		page("intro", 1, "Intro"),
		page("nowhere/child", 1, "Child"),
	}
	tree := BuildNavigationTree(pages)
	assert.Equal(t, []string{"Intro"}, titles(tree))
	assert.Empty(t, tree[0].Children)
}

func TestBuildNavigationTree_StableTies(t *testing.T) {
	pages := []*models.Page{
		unordered("b", "B"),
		unordered("a", "A"),
		page("c", 1, "C"),
	}
	tree := BuildNavigationTree(pages)
	// Processing order is (order, slug), so equal orders stay slug-sorted.
	assert.Equal(t, []string{"C", "A", "B"}, titles(tree))
	assert.Equal(t, models.DefaultOrder, tree[1].Order)
}

func TestBuildNavigationTree_EveryPageOnce(t *testing.T) {
	pages := []*models.Page{
		page("a", 1, "a"),
		page("a/b", 1, "a/b"),
		page("a/b/c", 1, "a/b/c"),
		page("a/d", 2, "a/d"),
		page("e", 3, "e"),
		page("e/f", 1, "e/f"),
	}
	tree := BuildNavigationTree(pages)

	seen := map[string]int{}
	Walk(tree, func(n *models.NavNode, depth int) {
		seen[n.Title]++
		assert.Equal(t, len(splitPath(n.Href))-1, depth, n.Title)
	})
	for _, p := range pages {
		assert.Equal(t, 1, seen[p.Metadata.Title], p.Metadata.Title)
	}
}

func TestDerivePrevNext(t *testing.T) {
	pages := []*models.Page{
		page("c", 3, "C"),
		page("a", 1, "A"),
		page("b", 2, "B"),
	}

	first := DerivePrevNext(pages, []string{"a"})
	assert.Nil(t, first.Previous)
	require.NotNil(t, first.Next)
	assert.Equal(t, "B", first.Next.Metadata.Title)

	last := DerivePrevNext(pages, []string{"c"})
	require.NotNil(t, last.Previous)
	assert.Equal(t, "B", last.Previous.Metadata.Title)
	assert.Nil(t, last.Next)

	mid := DerivePrevNext(pages, []string{"b"})
	assert.Equal(t, "A", mid.Previous.Metadata.Title)
	assert.Equal(t, "C", mid.Next.Metadata.Title)
}

func TestDerivePrevNext_NotFound(t *testing.T) {
	got := DerivePrevNext([]*models.Page{page("a", 1, "A")}, []string{"zzz"})
	assert.Nil(t, got.Previous)
	assert.Nil(t, got.Next)
}

func TestDerivePrevNext_TiesKeepInputOrder(t *testing.T) {
	pages := []*models.Page{
		unordered("x", "X"),
		unordered("y", "Y"),
		page("z", 1, "Z"),
	}
	got := DerivePrevNext(pages, []string{"x"})
	assert.Equal(t, "Z", got.Previous.Metadata.Title)
	assert.Equal(t, "Y", got.Next.Metadata.Title)
}

func TestHasCustomNextSteps(t *testing.T) {
	assert.True(t, HasCustomNextSteps("intro\n\n## Next Steps\n- a"))
	assert.False(t, HasCustomNextSteps("## Next"))
}
