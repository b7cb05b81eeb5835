// Package recipes suggests dishes for a set of ingredients and records the
// household's pick for the dashboard.
package recipes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/llm"
	"homehub/internal/logging"
)

const (
	DefaultLimit = 3
	OptionsFile  = "recipe_options.txt"
	SelectedFile = "selected_recipe.txt"
)

var (
	ErrNoOptions = goerr.New("no recipe options available")
	ErrNoChoice  = goerr.New("no selection made")
)

type Finder struct {
	Client llm.Client
}

func NewFinder(c llm.Client) *Finder {
	return &Finder{Client: c}
}

// Suggest asks the model for up to limit recipe titles.
func (f *Finder) Suggest(ctx context.Context, ingredients string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, goerr.New("ingredients are required")
	}
	prompt := fmt.Sprintf("Suggest %d recipes using these ingredients: %s. "+
		"Reply with a simple numbered list of titles only.", limit, ingredients)

	reply, err := llm.Ask(ctx, f.Client, "", prompt, llm.Options{MaxTokens: 200, Temperature: 0.7})
	if err != nil {
		return nil, goerr.Wrap(err, "recipe request failed", goerr.V("ingredients", ingredients))
	}
	options := CleanList(reply, limit)
	logging.From(ctx).Info("🍳 recipe options", "count", len(options))
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	return options, nil
}

// CleanList strips list numbering and bullets and keeps at most limit lines.
func CleanList(reply string, limit int) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "0123456789.-) *"))
		if line == "" {
			continue
		}
		out = append(out, line)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Choose prints options to w and reads a 1-based choice from r until a valid
// one is entered.
func Choose(r io.Reader, w io.Writer, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoOptions
	}
	_, _ = fmt.Fprintln(w, "Recipe options:")
	for i, name := range options {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, name)
	}

	sc := bufio.NewScanner(r)
	for {
		_, _ = fmt.Fprintf(w, "Select [1-%d]: ", len(options))
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", goerr.Wrap(err, "read selection")
			}
			return "", ErrNoChoice
		}
		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		_, _ = fmt.Fprintln(w, "Invalid selection, try again.")
	}
}

// Save writes the option list and the chosen title into dir.
func Save(dir, selected string, options []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", goerr.Wrap(err, "create recipe dir", goerr.V("dir", dir))
	}
	if err := os.WriteFile(filepath.Join(dir, OptionsFile), []byte(strings.Join(options, "\n")), 0o644); err != nil {
		return "", goerr.Wrap(err, "write recipe options")
	}
	selectedPath := filepath.Join(dir, SelectedFile)
	if err := os.WriteFile(selectedPath, []byte(selected), 0o644); err != nil {
		return "", goerr.Wrap(err, "write selected recipe")
	}
	return selectedPath, nil
}

// CheckPermissions verifies dir and dir/recipes are writable.
func CheckPermissions(dir string) llm.CheckResult {
	res := llm.CheckResult{Name: "File Permissions"}
	probeDir := filepath.Join(dir, "recipes")
	if err := os.MkdirAll(probeDir, 0o755); err != nil {
		res.Message = fmt.Sprintf("file permission check failed: %v", err)
		return res
	}
	probe := filepath.Join(probeDir, "test.txt")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		res.Message = fmt.Sprintf("file permission check failed: %v", err)
		return res
	}
	if err := os.Remove(probe); err != nil {
		res.Message = fmt.Sprintf("file permission check failed: %v", err)
		return res
	}
	res.OK = true
	res.Message = "file permissions are correct"
	return res
}
