package cli

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"homehub/internal/llm"
	"homehub/internal/recipes"
)

var recipeLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "recipes \"ingredient1, ingredient2\"",
		Short: "Suggest recipes for ingredients and save the chosen one",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecipes,
	}
	cmd.Flags().IntVarP(&recipeLimit, "limit", "n", 0, "Number of suggestions (default: $RECIPE_LIMIT)")

	RootCmd.AddCommand(cmd)
}

func runRecipes(cmd *cobra.Command, args []string) error {
	if err := requireLLM(); err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.TextModel)
	if err != nil {
		return err
	}

	limit := recipeLimit
	if limit <= 0 {
		limit = cfg.RecipeLimit
	}
	options, err := recipes.NewFinder(client).Suggest(ctx, args[0], limit)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch recipes")
	}
	selected, err := recipes.Choose(cmd.InOrStdin(), cmd.OutOrStdout(), options)
	if err != nil {
		return goerr.Wrap(err, "selection error")
	}
	path, err := recipes.Save(cfg.RecipeDir, selected, options)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Chosen recipe saved to %s\n", path)
	return nil
}
