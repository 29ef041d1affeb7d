package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/folio/internal/models"
)

func TestNavKey(t *testing.T) {
	assert.Equal(t, "resources/glossary", NavKey("Glossary", "/v2/resources/glossary"))
	assert.Equal(t, "guides", NavKey("Guides", "/Guides"))
	assert.Equal(t, "hello-world", NavKey("Hello World", ""))
	assert.Equal(t, "home", NavKey("Home", "/"))
}

func TestAssignIcons(t *testing.T) {
	nodes := []*models.NavNode{
		{Title: "Introduction", Href: "/introduction"},
		{Title: "Alpha", Href: "/alpha", Children: []*models.NavNode{
			{Title: "Beta", Href: "/alpha/beta"},
		}},
		{Title: "Gamma", Href: "/gamma"},
	}
	manual := map[string]string{"introduction": "compass"}
	pool := []string{"compass", "anchor", "atom", "circle"}

	table := AssignIcons(nodes, manual, pool)

	assert.Equal(t, "compass", table.IconFor(nodes[0]))
	assert.Equal(t, "anchor", table.IconFor(nodes[1]), "pool skips icons already taken")
	assert.Equal(t, "atom", table.IconFor(nodes[1].Children[0]))
	assert.Equal(t, "circle", table.IconFor(nodes[2]))
}

func TestAssignIcons_PoolExhausted(t *testing.T) {
	nodes := []*models.NavNode{
		{Title: "A", Href: "/a"},
		{Title: "B", Href: "/b"},
		{Title: "C", Href: "/c"},
	}
	table := AssignIcons(nodes, nil, []string{"one", "last"})
	assert.Equal(t, "one", table["a"])
	assert.Equal(t, "last", table["b"])
	assert.Equal(t, "last", table["c"])
}

func TestAssignIcons_Deterministic(t *testing.T) {
	nodes := []*models.NavNode{{Title: "X", Href: "/x"}, {Title: "Y", Href: "/y"}}
	a := AssignIcons(nodes, DefaultManualIcons, DefaultIconPool)
	b := AssignIcons(nodes, DefaultManualIcons, DefaultIconPool)
	assert.Equal(t, a, b)
}
