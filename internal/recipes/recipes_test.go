package recipes

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"homehub/internal/llm"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt string
	opts   llm.Options
}

func (f *fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return f.GenerateWithOptions(ctx, msgs, llm.Options{})
}

func (f *fakeLLM) GenerateWithOptions(_ context.Context, msgs []llm.Message, opts llm.Options) (llm.Response, error) {
	f.prompt = msgs[len(msgs)-1].Content
	f.opts = opts
	return llm.Response{Content: f.reply}, f.err
}

func TestSuggest(t *testing.T) {
	fake := &fakeLLM{reply: "1. Chicken Risotto\n2. Tomato Rice Soup\n\n3) Jollof Rice\n4. Extra"}
	options, err := NewFinder(fake).Suggest(context.Background(), " chicken, rice, tomato ", 3)
	gt.NoError(t, err)
	gt.Equal(t, options, []string{"Chicken Risotto", "Tomato Rice Soup", "Jollof Rice"})
	gt.S(t, fake.prompt).Contains("Suggest 3 recipes using these ingredients: chicken, rice, tomato.")
	gt.Equal(t, fake.opts.MaxTokens, 200)
}

func TestSuggestErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewFinder(&fakeLLM{}).Suggest(ctx, "  ", 3)
	gt.Error(t, err)

	_, err = NewFinder(&fakeLLM{err: errors.New("boom")}).Suggest(ctx, "eggs", 3)
	gt.Error(t, err)

	_, err = NewFinder(&fakeLLM{reply: "\n\n"}).Suggest(ctx, "eggs", 3)
	gt.True(t, errors.Is(err, ErrNoOptions))
}

func TestCleanList(t *testing.T) {
	gt.Equal(t, CleanList("- Pancakes\n* Omelette\n10. Frittata", 0), []string{"Pancakes", "Omelette", "Frittata"})
}

func TestChooseRetriesUntilValid(t *testing.T) {
	var out bytes.Buffer
	got, err := Choose(strings.NewReader("0\nabc\n2\n"), &out, []string{"A", "B"})
	gt.NoError(t, err)
	gt.Equal(t, got, "B")
	gt.Equal(t, strings.Count(out.String(), "Invalid selection, try again."), 2)
	gt.S(t, out.String()).Contains("1. A\n2. B\n")
}

func TestChooseEndOfInput(t *testing.T) {
	_, err := Choose(strings.NewReader("9\n"), &bytes.Buffer{}, []string{"A"})
	gt.True(t, errors.Is(err, ErrNoChoice))

	_, err = Choose(strings.NewReader("1\n"), &bytes.Buffer{}, nil)
	gt.True(t, errors.Is(err, ErrNoOptions))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ai")
	p, err := Save(dir, "B", []string{"A", "B"})
	gt.NoError(t, err)
	gt.Equal(t, p, filepath.Join(dir, SelectedFile))

	opts, err := os.ReadFile(filepath.Join(dir, OptionsFile))
	gt.NoError(t, err)
	gt.Equal(t, string(opts), "A\nB")
	sel, err := os.ReadFile(p)
	gt.NoError(t, err)
	gt.Equal(t, string(sel), "B")
}

func TestCheckPermissions(t *testing.T) {
	dir := t.TempDir()
	res := CheckPermissions(dir)
	gt.True(t, res.OK)
	_, err := os.Stat(filepath.Join(dir, "recipes", "test.txt"))
	gt.True(t, os.IsNotExist(err))

	file := filepath.Join(dir, "plain")
	gt.NoError(t, os.WriteFile(file, nil, 0o644))
	gt.False(t, CheckPermissions(file).OK)
}
