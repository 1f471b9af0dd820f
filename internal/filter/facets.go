package filter

import "github.com/nao1215/reportdeck/internal/model"

// Facets holds the filter options derived from the full catalog.
type Facets struct {
	// Sources lists every distinct source in discovery order.
	Sources []model.Facet `json:"sources"`

	// Categories lists every distinct category in discovery order.
	Categories []model.Facet `json:"categories"`
}

// ComputeFacets counts sources and categories over records.
// It must be given the full catalog, not a filtered subset, so counts
// show how many reports a selection would add. A report tagged twice with
// the same category counts once for it.
func ComputeFacets(records []model.Report) Facets {
	sources := newCounter()
	categories := newCounter()

	for _, r := range records {
		sources.add(r.Source)

		seen := make(map[string]struct{}, len(r.Categories))
		for _, c := range r.Categories {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			categories.add(c)
		}
	}

	return Facets{
		Sources:    sources.facets(),
		Categories: categories.facets(),
	}
}

// counter counts values while remembering first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) facets() []model.Facet {
	out := make([]model.Facet, len(c.order))
	for i, v := range c.order {
		out[i] = model.Facet{Value: v, Count: c.counts[v]}
	}
	return out
}
