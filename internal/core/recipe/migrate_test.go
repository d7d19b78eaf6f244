package recipe

import (
	"context"
	"testing"

	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIngredients(t *testing.T) {
	r := &common.Recipe{Ingredients: []common.Ingredient{
		{Name: "Flour", Quantity: "1 kg"},
		{Name: "Milk", Quantity: "2 cups"},
		{Name: "Egg", Quantity: "3"},
		{Name: "Garlic", Quantity: "2 cloves"},
		{Name: "Salt", Quantity: "to taste"},
		{Name: "Butter", Quantity: "50", Unit: "g"},
		{Name: "Potato", Quantity: "2", Unit: "kg"},
		{Name: "Stock", Quantity: "1", Unit: "l"},
	}}

	assert.True(t, NormalizeIngredients(r))
	want := []common.Ingredient{
		{Name: "Flour", Quantity: "1000", Unit: "g"},
		{Name: "Milk", Quantity: "480", Unit: "ml"},
		{Name: "Egg", Quantity: "3"},
		{Name: "Garlic", Quantity: "2", Unit: "cloves"},
		{Name: "Salt", Quantity: "to taste"},
		{Name: "Butter", Quantity: "50", Unit: "g"},
		{Name: "Potato", Quantity: "2000", Unit: "g"},
		{Name: "Stock", Quantity: "1000", Unit: "ml"},
	}
	assert.Equal(t, want, r.Ingredients)

	// 第二次執行不會再變動
	assert.False(t, NormalizeIngredients(r))
}

func TestMigrateIngredients(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	cache := &recordingCache{}
	svc := NewService(store, cache)

	require.NoError(t, store.CreateRecipe(ctx, &common.Recipe{ID: "a", Title: "Cake", Ingredients: []common.Ingredient{{Name: "Flour", Quantity: "0.5 kg"}}}))
	require.NoError(t, store.CreateRecipe(ctx, &common.Recipe{ID: "b", Title: "Tea", Ingredients: []common.Ingredient{{Name: "Water", Quantity: "250", Unit: "ml"}}}))
	require.NoError(t, store.CreateRecipe(ctx, &common.Recipe{ID: "c", Title: "Mash", Ingredients: []common.Ingredient{{Name: "Potato", Quantity: "2", Unit: "kg"}}}))

	res, err := svc.MigrateIngredients(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{Scanned: 3, Changed: 2}, res)
	got, err := store.GetRecipe(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, common.QuantityText("0.5 kg"), got.Ingredients[0].Quantity)

	res, err = svc.MigrateIngredients(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Changed)
	got, err = store.GetRecipe(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, common.QuantityText("500"), got.Ingredients[0].Quantity)
	assert.Equal(t, "g", got.Ingredients[0].Unit)
	got, err = store.GetRecipe(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, common.QuantityText("2000"), got.Ingredients[0].Quantity)
	assert.Equal(t, "g", got.Ingredients[0].Unit)
	assert.ElementsMatch(t, []string{"a", "c"}, cache.invalidated)

	res, err = svc.MigrateIngredients(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Changed)
}
