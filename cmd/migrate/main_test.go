package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientsCommand(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("DATABASE_DSN", dsn)

	store, err := storage.NewSQLStore("sqlite3", dsn)
	require.NoError(t, err)
	require.NoError(t, store.CreateRecipe(context.Background(), &common.Recipe{
		ID:          "r1",
		Title:       "Cake",
		Ingredients: []common.Ingredient{{Name: "Flour", Quantity: "1 kg"}},
	}))
	require.NoError(t, store.Close())

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := newIngredientsCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		return out.String()
	}

	assert.Equal(t, "scanned 1 recipes, would update 1\n", run("--dry-run"))
	assert.Equal(t, "scanned 1 recipes, updated 1\n", run())
	assert.Equal(t, "scanned 1 recipes, updated 0\n", run())

	store, err = storage.NewSQLStore("sqlite3", dsn)
	require.NoError(t, err)
	defer store.Close()
	r, err := store.GetRecipe(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, common.QuantityText("1000"), r.Ingredients[0].Quantity)
	assert.Equal(t, "g", r.Ingredients[0].Unit)
}
