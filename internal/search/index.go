// Package search ranks menu items against free-text queries.
//
// Index is the in-process fallback used when the hosted vector search is
// unreachable. It keeps a flat list of documents and scores each one per
// query; there is no inverted index.
package search

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chrisdamba/foodsite/internal/models"
)

var ErrIndexNotReady = errors.New("search index not built")

// Weights are the points awarded per matching field. Tag is awarded once per
// matching label.
type Weights struct {
	Name        int
	Description int
	Category    int
	Tag         int
}

func DefaultWeights() Weights {
	return Weights{Name: 10, Description: 5, Category: 3, Tag: 2}
}

// WeightsFromConfig falls back to the default for any weight left at zero.
func WeightsFromConfig(cfg models.SearchWeights) Weights {
	w := DefaultWeights()
	if cfg.Name > 0 {
		w.Name = cfg.Name
	}
	if cfg.Description > 0 {
		w.Description = cfg.Description
	}
	if cfg.Category > 0 {
		w.Category = cfg.Category
	}
	if cfg.Tag > 0 {
		w.Tag = cfg.Tag
	}
	return w
}

type Result struct {
	Item  models.MenuItem `json:"item"`
	Score int             `json:"score"`
}

type Group struct {
	Category string   `json:"category"`
	Results  []Result `json:"results"`
}

type Results struct {
	Query  string   `json:"query"`
	Items  []Result `json:"results"`
	Groups []Group  `json:"categories"`
}

type document struct {
	item        models.MenuItem
	name        string
	description string
	category    string
	labels      []string
}

type Index struct {
	weights Weights

	mu    sync.RWMutex
	docs  []document
	built bool

	ready     chan struct{}
	readyOnce sync.Once
}

func NewIndex(w Weights) *Index {
	return &Index{weights: w, ready: make(chan struct{})}
}

// Build replaces the indexed documents with the available items. progress,
// if set, is called with 0 before and 100 after the work.
func (ix *Index) Build(items []models.MenuItem, progress func(percent int)) {
	if progress != nil {
		progress(0)
	}

	docs := make([]document, 0, len(items))
	for _, it := range items {
		if !it.Available {
			continue
		}
		docs = append(docs, document{
			item:        it.Clone(),
			name:        normalize(it.Name),
			description: normalize(it.Description),
			category:    normalize(it.Category),
			labels:      labels(it),
		})
	}

	ix.mu.Lock()
	ix.docs = docs
	ix.built = true
	ix.mu.Unlock()

	if progress != nil {
		progress(100)
	}
	ix.readyOnce.Do(func() { close(ix.ready) })
}

// Ready is closed after the first Build.
func (ix *Index) Ready() <-chan struct{} {
	return ix.ready
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

func (ix *Index) Search(query string) (Results, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.built {
		return Results{}, ErrIndexNotReady
	}
	q := normalize(query)
	out := Results{Query: q, Items: []Result{}, Groups: []Group{}}
	if q == "" {
		return out, nil
	}

	for _, d := range ix.docs {
		if score := ix.score(d, q); score > 0 {
			out.Items = append(out.Items, Result{Item: d.item.Clone(), Score: score})
		}
	}
	sortByScore(out.Items)
	out.Groups = groupByCategory(out.Items)
	return out, nil
}

func (ix *Index) score(d document, q string) int {
	score := 0
	if strings.Contains(d.name, q) {
		score += ix.weights.Name
	}
	if strings.Contains(d.description, q) {
		score += ix.weights.Description
	}
	if strings.Contains(d.category, q) {
		score += ix.weights.Category
	}
	for _, l := range d.labels {
		if strings.Contains(l, q) {
			score += ix.weights.Tag
		}
	}
	return score
}

// sortByScore orders descending; equal scores keep their input order.
func sortByScore(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Score > rs[j].Score })
}

// groupByCategory orders categories by their first appearance in the ranked
// list. Each group is sorted like the flat list.
func groupByCategory(sorted []Result) []Group {
	var order []string
	byCat := make(map[string][]Result)
	for _, r := range sorted {
		if _, ok := byCat[r.Item.Category]; !ok {
			order = append(order, r.Item.Category)
		}
		byCat[r.Item.Category] = append(byCat[r.Item.Category], r)
	}
	groups := make([]Group, 0, len(order))
	for _, c := range order {
		rs := byCat[c]
		sortByScore(rs)
		groups = append(groups, Group{Category: c, Results: rs})
	}
	return groups
}

// labels is the deduplicated union of tags, ingredients and dietary labels.
func labels(it models.MenuItem) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(vals []string) {
		for _, v := range vals {
			n := normalize(v)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	add(it.Tags)
	add(it.Ingredients)
	add(it.DietaryLabels())
	return out
}

// normalize lower-cases and trims. A Caser is stateful, so one is made per call.
func normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
