package recipe

import (
	"context"
	"errors"
	"testing"

	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Invalidate(ctx context.Context, id string) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

func TestServiceCRUD(t *testing.T) {
	ctx := context.Background()
	cache := &recordingCache{}
	svc := NewService(storage.NewMemoryStore(), cache)

	created, err := svc.Create(ctx, "u1", &common.Recipe{
		ID:          "ignored",
		Title:       "Carrot Soup",
		Ingredients: []common.Ingredient{{Name: "Carrot", Quantity: "100g"}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", created.ID)
	assert.Equal(t, "u1", created.AuthorID)
	assert.NotEmpty(t, created.Ingredients[0].ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carrot Soup", got.Title)

	_, err = svc.Update(ctx, created.ID, "u2", &common.Recipe{Title: "Hijacked"})
	assert.True(t, errors.Is(err, common.ErrForbidden))

	updated, err := svc.Update(ctx, created.ID, "u1", &common.Recipe{Title: "Carrot Stew", AuthorID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.AuthorID)
	assert.Equal(t, []string{created.ID}, cache.invalidated)

	list, err := svc.List(ctx, "  stew ")
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.True(t, errors.Is(svc.Delete(ctx, created.ID, "u2"), common.ErrForbidden))
	require.NoError(t, svc.Delete(ctx, created.ID, "u1"))
	assert.Len(t, cache.invalidated, 2)

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
	assert.Equal(t, 404, common.StatusOf(err))
}

func TestServiceValidation(t *testing.T) {
	svc := NewService(storage.NewMemoryStore(), nil)

	_, err := svc.Create(context.Background(), "u1", &common.Recipe{})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Create(context.Background(), "u1", &common.Recipe{Title: "x", Ingredients: []common.Ingredient{{Quantity: "1"}}})
	assert.True(t, common.IsValidationError(err))
}

func TestIngredientNames(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore(), nil)

	_, err := svc.Create(ctx, "u1", &common.Recipe{Title: "Soup", Ingredients: []common.Ingredient{{Name: "Onion"}, {Name: "Carrot"}}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", &common.Recipe{Title: "Salad", Ingredients: []common.Ingredient{{Name: "Carrot"}, {Name: "Lettuce"}}})
	require.NoError(t, err)

	names, err := svc.IngredientNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carrot", "Lettuce", "Onion"}, names)
}
