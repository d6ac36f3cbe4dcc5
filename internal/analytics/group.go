package analytics

import (
	"sort"

	"github.com/abhms/alter/internal/model"
)

// group accumulates the click count and distinct viewers for one key.
type group struct {
	clicks  int64
	viewers map[string]struct{}
}

func newGroup() *group {
	return &group{viewers: make(map[string]struct{})}
}

func (g *group) add(viewerID string) {
	g.clicks++
	if viewerID != "" {
		g.viewers[viewerID] = struct{}{}
	}
}

func (g *group) uniqueUsers() int64 {
	return int64(len(g.viewers))
}

// groupBy is the first pass: one group per key produced by keyFn.
func groupBy(records []model.ClickRecord, keyFn func(*model.ClickRecord) string) map[string]*group {
	groups := make(map[string]*group)
	for i := range records {
		key := keyFn(&records[i])
		g, ok := groups[key]
		if !ok {
			g = newGroup()
			groups[key] = g
		}
		g.add(records[i].ViewerID)
	}
	return groups
}

// orderedKeys sorts group keys by click count descending, then key ascending.
func orderedKeys(groups map[string]*group) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := groups[keys[i]].clicks, groups[keys[j]].clicks
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	return keys
}
