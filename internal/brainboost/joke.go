package brainboost

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/content"
	"homehub/internal/llm"
	"homehub/internal/logging"
)

const jokeTimeout = 5 * time.Second

// fetchJoke tries the joke API, then the text model, then a fixed joke.
func (g *Generator) fetchJoke(ctx context.Context) string {
	logger := logging.From(ctx)
	if g.Opts.JokeURL != "" {
		joke, err := g.fetchJokeAPI(ctx)
		if err == nil {
			return joke
		}
		logger.Warn("joke api failed, asking the model", "error", err)
	}

	joke, err := llm.Ask(ctx, g.Text, "", content.JokePrompt, llm.Options{MaxTokens: 60})
	if err != nil || joke == "" {
		if err != nil {
			logger.Error("joke generation failed", "error", err)
		}
		return content.FallbackJoke
	}
	return joke
}

func (g *Generator) fetchJokeAPI(ctx context.Context) (string, error) {
	client := g.JokeClient
	if client == nil {
		client = &http.Client{Timeout: jokeTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Opts.JokeURL, nil)
	if err != nil {
		return "", goerr.Wrap(err, "build joke request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "joke request failed")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("joke api status", goerr.V("status", resp.StatusCode))
	}
	var body struct {
		Joke string `json:"joke"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", goerr.Wrap(err, "decode joke")
	}
	if strings.TrimSpace(body.Joke) == "" {
		return "", goerr.New("joke api returned no joke")
	}
	return strings.TrimSpace(body.Joke), nil
}
