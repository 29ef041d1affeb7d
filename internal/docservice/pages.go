package docservice

import (
	"sort"
	"strconv"
	"strings"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
)

func sortPages(pages []*models.Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		oi, oj := pages[i].Metadata.EffectiveOrder(), pages[j].Metadata.EffectiveOrder()
		if oi != oj {
			return oi < oj
		}
		return pages[i].SlugKey() < pages[j].SlugKey()
	})
}

func summarize(p *models.Page) PageSummary {
	tags := p.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	return PageSummary{
		Slug:        p.Slug,
		Href:        p.Href(),
		Path:        p.Path,
		Title:       p.Metadata.Title,
		Description: p.Metadata.Description,
		Order:       p.Metadata.EffectiveOrder(),
		Tags:        tags,
	}
}

// pagesFingerprint digests every input of a page view: each page's
// navigation fields and body.
func pagesFingerprint(pages []*models.Page) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Path)
		b.WriteByte(0)
		b.WriteString(p.SlugKey())
		b.WriteByte(0)
		b.WriteString(p.Metadata.NavTitle())
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(p.Metadata.EffectiveOrder()))
		b.WriteByte(0)
		b.WriteString(p.Body)
		b.WriteByte(0)
	}
	return checksum.Sum([]byte(b.String()))
}
