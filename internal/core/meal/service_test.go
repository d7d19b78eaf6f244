package meal

import (
	"context"
	"errors"
	"testing"

	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore())

	m, err := svc.Create(ctx, "u1", &common.Meal{Date: "2024-06-05", Items: []common.MealItem{{RecipeID: "r1", Servings: common.Servings(2)}}})
	require.NoError(t, err)
	assert.Equal(t, "u1", m.UserID)

	_, err = svc.Create(ctx, "u1", &common.Meal{Date: "2024-07-01"})
	require.NoError(t, err)

	june, err := svc.List(ctx, "u1", common.Period{Start: "2024-06-01", End: "2024-06-30"})
	require.NoError(t, err)
	require.Len(t, june, 1)
	assert.Equal(t, m.ID, june[0].ID)

	others, err := svc.List(ctx, "u2", common.Period{})
	require.NoError(t, err)
	assert.Empty(t, others)

	_, err = svc.Get(ctx, m.ID, "u2")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.Update(ctx, m.ID, "u2", &common.Meal{Date: "2024-06-06"})
	assert.True(t, errors.Is(err, common.ErrNotFound))

	updated, err := svc.Update(ctx, m.ID, "u1", &common.Meal{Date: "2024-06-06"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-06", updated.Date)
	assert.NotNil(t, updated.Items)

	assert.True(t, errors.Is(svc.Delete(ctx, m.ID, "u2"), common.ErrNotFound))
	require.NoError(t, svc.Delete(ctx, m.ID, "u1"))
}

func TestServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore())

	_, err := svc.Create(ctx, "u1", &common.Meal{Date: "06/05/2024"})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Create(ctx, "u1", &common.Meal{Date: "2024-06-05", Items: []common.MealItem{{Servings: common.Servings(-1)}}})
	assert.True(t, common.IsValidationError(err))

	zero, err := svc.Create(ctx, "u1", &common.Meal{Date: "2024-06-05", Items: []common.MealItem{{RecipeID: "r1", Servings: common.Servings(0)}}})
	require.NoError(t, err)
	require.NotNil(t, zero.Items[0].Servings)
	assert.Equal(t, 0.0, zero.Items[0].EffectiveServings())

	_, err = svc.List(ctx, "u1", common.Period{Start: "2024-06-30", End: "2024-06-01"})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.List(ctx, "u1", common.Period{Start: "june"})
	assert.True(t, common.IsValidationError(err))
}
