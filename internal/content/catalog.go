package content

import (
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Kind names with special handling in a run.
const (
	KindWord = "word"
	KindJoke = "joke"
)

// Kind is one dashboard snippet. Prompt may use {{date}} ("March 20") and
// {{year}} placeholders.
type Kind struct {
	Name      string `yaml:"name"`
	Prompt    string `yaml:"prompt"`
	MaxTokens int    `yaml:"max_tokens"`
	NoImage   bool   `yaml:"no_image"`
}

type Catalog struct {
	System string `yaml:"system"`
	Kinds  []Kind `yaml:"kinds"`
}

const defaultSystem = "You are a factual assistant. Only provide real, verifiable information. " +
	"Never make up facts, events, quotes, or historical information. " +
	"If you're not certain something is true, don't include it."

// DefaultCatalog is the built-in UK-focused prompt set.
func DefaultCatalog() *Catalog {
	return &Catalog{
		System: defaultSystem,
		Kinds: []Kind{
			{
				Name: "fact",
				Prompt: "Tell me a REAL, verifiable science fact. Focus on UK/British discoveries or research. " +
					"Must be factually accurate and specific. " +
					"MUST be under 250 characters, single paragraph.",
				MaxTokens: 70,
			},
			{
				Name: "on_this_day",
				Prompt: "What ACTUALLY happened on {{date}} in British history? " +
					"Give me a REAL historical event that occurred on this exact date (any year before {{year}}). " +
					"Must be historically accurate - do not make up events. " +
					"Under 250 characters.",
				MaxTokens: 70,
			},
			{
				Name: "quote",
				Prompt: "Share a REAL, verifiable quote from a British historical figure, writer, or scientist. " +
					"Must be an actual quote they said or wrote, not made up. " +
					"Include who said it. Under 250 characters.",
				MaxTokens: 80,
			},
			{
				Name: "poem",
				Prompt: "Share a REAL short poem (4-6 lines) by an actual British poet. " +
					"Must be a real published poem, not made up. " +
					"Format: '[poem text] — [Author]' on ONE line. Under 250 chars.",
				MaxTokens: 100,
			},
			{
				Name: "history",
				Prompt: "Share a REAL, verifiable historical fact about the United Kingdom. " +
					"Must be factually accurate and specific, not generic. " +
					"Single paragraph under 250 characters.",
				MaxTokens: 70,
			},
			{
				Name: KindWord,
				Prompt: "Share a REAL unusual English word (preferably British origin) from the dictionary. " +
					"Must be an actual word with its correct definition. " +
					"Format: 'Word: [word] - [accurate definition under 15 words]'. Max 120 chars.",
				MaxTokens: 40,
			},
			{
				Name: "riddle",
				Prompt: "Share a clever traditional riddle. Can be a classic riddle or create a new one. " +
					"Format: 'Riddle: [question] Answer: [answer]' " +
					"on ONE line. Under 250 characters.",
				MaxTokens: 80,
			},
		},
	}
}

// LoadCatalog reads a YAML catalog. An empty path or a missing file yields the
// defaults; kinds without max_tokens get 80.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, goerr.Wrap(err, "read prompt catalog", goerr.V("path", path))
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, goerr.Wrap(err, "parse prompt catalog", goerr.V("path", path))
	}
	if c.System == "" {
		c.System = defaultSystem
	}
	seen := map[string]bool{}
	for i := range c.Kinds {
		k := &c.Kinds[i]
		k.Name = strings.TrimSpace(k.Name)
		if k.Name == "" || k.Prompt == "" {
			return nil, goerr.New("catalog kind needs name and prompt", goerr.V("index", i))
		}
		if k.Name == KindJoke {
			return nil, goerr.New("joke is generated separately and cannot be configured", goerr.V("path", path))
		}
		if seen[k.Name] {
			return nil, goerr.New("duplicate catalog kind", goerr.V("kind", k.Name))
		}
		seen[k.Name] = true
		if k.MaxTokens <= 0 {
			k.MaxTokens = 80
		}
	}
	if len(c.Kinds) == 0 {
		return nil, goerr.New("prompt catalog has no kinds", goerr.V("path", path))
	}
	return &c, nil
}

// Get returns the kind by name.
func (c *Catalog) Get(name string) (Kind, bool) {
	for _, k := range c.Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// Names lists every kind plus the joke, in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Kinds)+1)
	for _, k := range c.Kinds {
		names = append(names, k.Name)
	}
	return append(names, KindJoke)
}

// Render fills placeholders for now and appends hint.
func (k Kind) Render(now time.Time, hint string) string {
	r := strings.NewReplacer(
		"{{date}}", now.Format("January 02"),
		"{{year}}", now.Format("2006"),
	)
	return r.Replace(k.Prompt) + hint
}
