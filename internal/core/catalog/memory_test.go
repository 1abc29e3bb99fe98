package catalog

import (
	"context"
	"sync"
	"testing"

	"food-compare/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, source common.Source, calories int) common.FoodRecord {
	return common.FoodRecord{
		Name:        name,
		PortionSize: common.DefaultPortionSize,
		Macros:      common.FoodMacros{Calories: calories, Protein: 1},
		Source:      source,
	}
}

func TestMemoryStoreUpsertIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	first := record("Banana", common.SourceUSDA, 89)
	require.NoError(t, s.Upsert(ctx, &first))
	second := record("BANANA", common.SourceMyFoodData, 90)
	require.NoError(t, s.Upsert(ctx, &second))

	assert.Equal(t, 1, s.Len())
	got, err := s.FindByName(ctx, "banana")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "banana", got.Name)
	assert.Equal(t, 90, got.Macros.Calories)
	assert.Equal(t, common.SourceMyFoodData, got.Source)
	assert.Equal(t, []common.Portion{{Amount: 1, Unit: "100g", GramWeight: 100}}, got.Portions)
}

func TestMemoryStoreIgnoresAccents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore(
		record("Crème brûlée", common.SourceAI, 250),
		record("jalapeño peppers, raw", common.SourceUSDA, 29),
	)

	got, err := s.FindByName(ctx, "creme brulee")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "crème brûlée", got.Name)

	got, err = s.FindByName(ctx, "CRÈME BRÛLÉE")
	require.NoError(t, err)
	require.NotNil(t, got)

	matches, err := s.Search(ctx, []string{"jalapeno"}, "jalapeno", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "jalapeño peppers, raw", matches[0].Name)

	again := record("creme brulee", common.SourceAI, 260)
	require.NoError(t, s.Upsert(ctx, &again))
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStoreConcurrentUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := record("Quinoa", common.SourceUSDA, 100+i)
			assert.NoError(t, s.Upsert(ctx, &r))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore(
		record("chicken breast, grilled", common.SourceUSDA, 165),
		record("chicken noodle soup", common.SourceUSDA, 60),
		record("chicken", common.SourceMyFoodData, 239),
		record("fried chicken", common.SourceMyFoodData, 246),
	)

	got, err := s.Search(ctx, []string{"chicken", "breast"}, "chicken breast", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "chicken breast, grilled", got[0].Name)

	got, err = s.Search(ctx, []string{"chicken"}, "chicken", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "chicken", got[0].Name)
	assert.Equal(t, "fried chicken", got[1].Name)
	assert.Equal(t, "chicken breast, grilled", got[2].Name)

	got, err = s.Search(ctx, nil, "", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreDeleteAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore(
		record("apple", common.SourceUSDA, 52),
		record("pear", common.SourceUSDA, 57),
		record("kimchi", common.SourceAI, 15),
	)

	counts, err := s.CountBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[common.Source]int64{common.SourceUSDA: 2, common.SourceAI: 1}, counts)

	deleted, err := s.DeleteBySource(ctx, common.SourceUSDA)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	counts, err = s.CountBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[common.Source]int64{common.SourceAI: 1}, counts)

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Ping(ctx))
}
