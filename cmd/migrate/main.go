package main

import (
	"fmt"
	"os"

	recipeService "meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Data maintenance tasks for the meal planner",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return common.InitLogger(level, "meal-planner-migrate")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.Sync()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(newIngredientsCmd())
	return root
}

func newIngredientsCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Rewrite free-text ingredient quantities as normalized numbers and units",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := storage.New(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer store.Close()

			svc := recipeService.NewService(store, nil)
			res, err := svc.MigrateIngredients(cmd.Context(), dryRun)
			if err != nil {
				common.LogError("食材正規化失敗", zap.Error(err))
				return err
			}

			verb := "updated"
			if dryRun {
				verb = "would update"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d recipes, %s %d\n", res.Scanned, verb, res.Changed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")
	return cmd
}
