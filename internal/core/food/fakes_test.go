package food

import (
	"context"
	"errors"
	"sync"
)

type fakeCatalog struct {
	mu        sync.Mutex
	records   map[string]FoodRecord
	upserts   int
	upsertErr error
	searchErr error
}

func newFakeCatalog(names ...string) *fakeCatalog {
	c := &fakeCatalog{records: make(map[string]FoodRecord)}
	for _, n := range names {
		c.records[FoldName(n)] = FoodRecord{
			Name:        CatalogName(n),
			PortionSize: "100g",
			Macros:      FoodMacros{Calories: 100, Protein: 1},
			Source:      "usda",
		}
	}
	return c
}

func (c *fakeCatalog) FindByName(_ context.Context, name string) (*FoodRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.records[FoldName(name)]; ok {
		return &r, nil
	}
	return nil, nil
}

func (c *fakeCatalog) Search(_ context.Context, tokens []string, query string, limit int) ([]FoodRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	var out []FoodRecord
	for _, r := range c.records {
		if ContainsAllTokens(r.Name, tokens) {
			out = append(out, r)
		}
	}
	SortMatches(out, query)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *fakeCatalog) Upsert(_ context.Context, r *FoodRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.upsertErr != nil {
		return c.upsertErr
	}
	c.upserts++
	c.records[FoldName(r.Name)] = *r
	return nil
}

func (c *fakeCatalog) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

type fakeExternal struct {
	mu      sync.Mutex
	foods   []RawExternalFood
	err     error
	block   bool
	calls   int
	queries []string
}

func (f *fakeExternal) Search(ctx context.Context, query string) ([]RawExternalFood, error) {
	f.mu.Lock()
	f.calls++
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.foods, nil
}

func (f *fakeExternal) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errUpstream = errors.New("upstream returned 503")

var testMapper = IDMapper{
	Calories:     []int{1008, 2047},
	Protein:      []int{1003},
	TotalFat:     []int{1004},
	SaturatedFat: []int{1258},
	Carbs:        []int{1005},
	Sugars:       []int{2000, 1063},
	Fibre:        []int{1079},
}

func rawFood(description string, nutrients map[int]float64) RawExternalFood {
	raw := RawExternalFood{Description: description, Source: "usda"}
	for _, id := range []int{1008, 2047, 1003, 1004, 1258, 1005, 2000, 1063, 1079} {
		if v, ok := nutrients[id]; ok {
			raw.Nutrients = append(raw.Nutrients, Nutrient{ID: id, Value: v})
		}
	}
	return raw
}
