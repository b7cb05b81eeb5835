package content

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	gt.Equal(t, c.Names(), []string{"fact", "on_this_day", "quote", "poem", "history", "word", "riddle", "joke"})

	poem, ok := c.Get("poem")
	gt.True(t, ok)
	gt.Equal(t, poem.MaxTokens, 100)

	_, ok = c.Get("joke")
	gt.False(t, ok)
}

func TestRenderPlaceholders(t *testing.T) {
	c := DefaultCatalog()
	k, _ := c.Get("on_this_day")
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)

	p := k.Render(now, "\n\nHINT")
	gt.S(t, p).Contains("What ACTUALLY happened on March 05 in British history?")
	gt.S(t, p).Contains("any year before 2024")
	gt.True(t, strings.HasSuffix(p, "\n\nHINT"))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadCatalog("")
	gt.NoError(t, err)
	gt.A(t, c.Kinds).Length(7)

	c, err = LoadCatalog(filepath.Join(dir, "missing.yaml"))
	gt.NoError(t, err)
	gt.A(t, c.Kinds).Length(7)

	p := filepath.Join(dir, "prompts.yaml")
	gt.NoError(t, os.WriteFile(p, []byte(`
kinds:
  - name: fact
    prompt: "A garden fact for {{date}}."
  - name: word
    prompt: "Word: something"
    max_tokens: 30
    no_image: true
`), 0o644))
	c, err = LoadCatalog(p)
	gt.NoError(t, err)
	gt.Equal(t, c.System, defaultSystem)
	gt.A(t, c.Kinds).Length(2)
	gt.Equal(t, c.Kinds[0].MaxTokens, 80)
	gt.True(t, c.Kinds[1].NoImage)

	gt.NoError(t, os.WriteFile(p, []byte("kinds:\n  - name: joke\n    prompt: x\n"), 0o644))
	_, err = LoadCatalog(p)
	gt.Error(t, err)

	gt.NoError(t, os.WriteFile(p, []byte("kinds:\n  - name: a\n    prompt: x\n  - name: a\n    prompt: y\n"), 0o644))
	_, err = LoadCatalog(p)
	gt.Error(t, err)

	gt.NoError(t, os.WriteFile(p, []byte("kinds: [unclosed"), 0o644))
	_, err = LoadCatalog(p)
	gt.Error(t, err)
}

func TestExtractWord(t *testing.T) {
	gt.Equal(t, ExtractWord("Word: Petrichor - the smell of rain"), "Petrichor")
	gt.Equal(t, ExtractWord("Word: **Gallimaufry** - a jumble"), "Gallimaufry")
	gt.Equal(t, ExtractWord("Word:"), FallbackWord)
	gt.Equal(t, ExtractWord(""), FallbackWord)
}

func TestNormalizeArtist(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	gt.Equal(t, NormalizeArtist(" Hokusai.\n", rng), "Hokusai")

	picked := NormalizeArtist("", rng)
	gt.True(t, contains(FallbackArtists(), picked))

	picked = NormalizeArtist(strings.Repeat("x", 41), rng)
	gt.True(t, contains(FallbackArtists(), picked))
}

func TestPromptsAndIllustratable(t *testing.T) {
	gt.S(t, ArtistPrompt(strings.Repeat("a", 150))).Contains("'" + strings.Repeat("a", 100) + "...'")
	gt.S(t, ImagePrompt("Klimt", "a riddle")).Contains("distinctive style of Klimt")
	gt.S(t, ImagePrompt("Klimt", "a riddle")).Contains("Klimt's unique artistic style")

	gt.True(t, Illustratable("A fact"))
	gt.False(t, Illustratable("  "))
	gt.False(t, Illustratable("x "+FailedMarker))
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
