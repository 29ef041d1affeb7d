package content

import (
	"sort"
	"strings"

	"github.com/starford/folio/internal/models"
)

// BuildNavigationTree groups pages into a sidebar tree by slug depth.
//
// Pages are processed shallowest first, then by order, then by joined slug.
// A page with at most one segment becomes a top-level node keyed by that
// segment. A deeper page attaches under the node keyed by its parent path,
// or under the top-level node sharing its first segment when the parent has
// no page; with neither present it is dropped. Children are then sorted by
// order with ties kept in insertion order.
func BuildNavigationTree(pages []*models.Page) []*models.NavNode {
	sorted := append([]*models.Page(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if len(a.Slug) != len(b.Slug) {
			return len(a.Slug) < len(b.Slug)
		}
		if oa, ob := a.Metadata.EffectiveOrder(), b.Metadata.EffectiveOrder(); oa != ob {
			return oa < ob
		}
		return a.SlugKey() < b.SlugKey()
	})

	tree := []*models.NavNode{}
	byKey := make(map[string]*models.NavNode, len(sorted))

	for _, p := range sorted {
		node := &models.NavNode{
			Title: p.Metadata.NavTitle(),
			Href:  p.Href(),
			Order: p.Metadata.EffectiveOrder(),
		}

		if len(p.Slug) <= 1 {
			tree = append(tree, node)
			byKey[firstSegment(p.Slug)] = node
			continue
		}

		parent, ok := byKey[models.JoinSlug(p.Slug[:len(p.Slug)-1])]
		if !ok {
			parent, ok = byKey[p.Slug[0]]
		}
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, node)
		byKey[p.SlugKey()] = node
	}

	sortNodes(tree)
	return tree
}

func sortNodes(nodes []*models.NavNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
	for _, n := range nodes {
		if len(n.Children) > 0 {
			sortNodes(n.Children)
		}
	}
}

func firstSegment(slug []string) string {
	if len(slug) == 0 {
		return ""
	}
	return slug[0]
}

// Walk visits every node depth-first in display order.
func Walk(nodes []*models.NavNode, fn func(n *models.NavNode, depth int)) {
	var visit func([]*models.NavNode, int)
	visit = func(ns []*models.NavNode, depth int) {
		for _, n := range ns {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(nodes, 0)
}

// DerivePrevNext sorts pages by order only (stable) and returns the
// neighbours of the page whose joined slug matches current.
func DerivePrevNext(pages []*models.Page, current []string) models.PrevNext {
	sorted := append([]*models.Page(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metadata.EffectiveOrder() < sorted[j].Metadata.EffectiveOrder()
	})

	key := models.JoinSlug(current)
	idx := -1
	for i, p := range sorted {
		if p.SlugKey() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.PrevNext{}
	}

	var out models.PrevNext
	if idx > 0 {
		out.Previous = sorted[idx-1]
	}
	if idx < len(sorted)-1 {
		out.Next = sorted[idx+1]
	}
	return out
}

// HasCustomNextSteps reports whether a body brings its own "Next Steps"
// section, in which case prev/next links are not shown.
func HasCustomNextSteps(body string) bool {
	return strings.Contains(body, "## Next Steps")
}
