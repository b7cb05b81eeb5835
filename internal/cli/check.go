package cli

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"homehub/internal/llm"
	"homehub/internal/recipes"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the API key, model access and output permissions",
		RunE:  runCheck,
	}

	RootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Checking GPT API functionality...")

	var results []llm.CheckResult
	if cfg.OpenAIAPIKey == "" {
		results = append(results, llm.CheckResult{Name: "API Key", Message: "OPENAI_API_KEY environment variable is not set"})
	} else {
		client := llm.NewFactory(cfg).OpenAI(cfg.TextModel)
		results = append(results,
			llm.CheckAPIKey(ctx, client),
			llm.CheckModelAccess(ctx, client, cfg.TextModel),
		)
	}
	results = append(results, recipes.CheckPermissions(cfg.RecipeDir))

	failed := 0
	for _, r := range results {
		_, _ = fmt.Fprintln(out, r.String())
		if !r.OK {
			failed++
		}
	}

	_, _ = fmt.Fprintln(out, "\nSummary:")
	if failed > 0 {
		_, _ = fmt.Fprintln(out, "✗ Some checks failed. Please fix the issues above.")
		return goerr.New("checks failed", goerr.V("failed", failed))
	}
	_, _ = fmt.Fprintln(out, "✓ All checks passed!")
	return nil
}
