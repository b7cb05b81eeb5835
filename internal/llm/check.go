package llm

import (
	"context"
	"fmt"
	"slices"
)

type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Name    string
	OK      bool
	Message string
}

func (r CheckResult) String() string {
	mark := "✓"
	if !r.OK {
		mark = "✗"
	}
	return fmt.Sprintf("%s %s: %s", mark, r.Name, r.Message)
}

// CheckAPIKey sends a minimal completion to verify the key works.
func CheckAPIKey(ctx context.Context, c Client) CheckResult {
	_, err := c.GenerateWithOptions(ctx, []Message{{Role: "user", Content: "test"}}, Options{MaxTokens: 5})
	if err != nil {
		return CheckResult{Name: "API Key", Message: fmt.Sprintf("API key validation failed: %v", err)}
	}
	return CheckResult{Name: "API Key", OK: true, Message: "API key is valid"}
}

// CheckModelAccess verifies that model is visible to the key.
func CheckModelAccess(ctx context.Context, l ModelLister, model string) CheckResult {
	ids, err := l.ListModels(ctx)
	if err != nil {
		return CheckResult{Name: "Model Access", Message: fmt.Sprintf("failed to check model access: %v", err)}
	}
	if !slices.Contains(ids, model) {
		return CheckResult{Name: "Model Access", Message: fmt.Sprintf("%s is not available with your API key (available: %d models)", model, len(ids))}
	}
	return CheckResult{Name: "Model Access", OK: true, Message: model + " is available"}
}
