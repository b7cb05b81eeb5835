// Package standalone generates the self-hosted daily content set used by the
// hub viewer, independent of Home Assistant.
package standalone

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/llm"
	"homehub/internal/logging"
)

const (
	ContentFile = "content.json"
	ImagesDir   = "images"
	imageKind   = "joke"
	maxTokens   = 60
)

// Prompt pairs a content key with the request sent to the model.
type Prompt struct {
	Key  string
	Text string
}

var DefaultPrompts = []Prompt{
	{"fact", "Provide a short, interesting science fact."},
	{"history", "Give a notable UK historical event for today in history."},
	{"word", "Share an uncommon English word of the day and its meaning."},
	{"joke", "Tell a family-friendly joke."},
	{"riddle", "Provide a short riddle."},
	{"poem", "Write a two-line inspirational poem."},
	{"quote", "Provide a motivational quote."},
	{"on_this_day", "List a world event that occurred on this day."},
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Hub writes {DataDir}/{YYYYMMDD}/content.json and
// {DataDir}/images/joke_{YYYYMMDD}.png.
type Hub struct {
	DataDir string
	Prompts []Prompt
	Text    llm.Client
	Images  llm.ImageGenerator
	Fetch   Fetcher
	Now     func() time.Time
}

// Result describes what one Generate call wrote.
type Result struct {
	Folder  string
	Content map[string]string
	Image   string
}

func (h *Hub) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// Generate fills every prompt and saves the set. A failed image is logged and
// leaves Result.Image empty.
func (h *Hub) Generate(ctx context.Context) (*Result, error) {
	logger := logging.From(ctx)
	day := h.now().Format("20060102")
	res := &Result{
		Folder:  filepath.Join(h.DataDir, day),
		Content: map[string]string{},
	}
	imagesDir := filepath.Join(h.DataDir, ImagesDir)
	for _, dir := range []string{res.Folder, imagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "create hub dir", goerr.V("dir", dir))
		}
	}

	prompts := h.Prompts
	if len(prompts) == 0 {
		prompts = DefaultPrompts
	}
	for _, p := range prompts {
		text, err := llm.Ask(ctx, h.Text, "", p.Text, llm.Options{MaxTokens: maxTokens})
		if err != nil {
			return nil, goerr.Wrap(err, "generate hub content", goerr.V("key", p.Key))
		}
		res.Content[p.Key] = text
	}

	data, err := json.MarshalIndent(res.Content, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "encode hub content")
	}
	if err := os.WriteFile(filepath.Join(res.Folder, ContentFile), data, 0o644); err != nil {
		return nil, goerr.Wrap(err, "write hub content")
	}

	if h.Images != nil && h.Fetch != nil {
		img := filepath.Join(imagesDir, ImageName(day))
		if err := h.drawJoke(ctx, res.Content[imageKind], img); err != nil {
			logger.Warn("hub image failed", "error", err)
		} else {
			res.Image = img
		}
	}
	logger.Info("content saved", "folder", res.Folder)
	return res, nil
}

func (h *Hub) drawJoke(ctx context.Context, prompt, path string) error {
	url, err := h.Images.GenerateImage(ctx, llm.ImageRequest{Prompt: prompt})
	if err != nil {
		return goerr.Wrap(err, "image request failed")
	}
	data, err := h.Fetch.Fetch(ctx, url)
	if err != nil {
		return goerr.Wrap(err, "image download failed")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "write hub image", goerr.V("path", path))
	}
	return nil
}

// ImageName is the joke image filename for a YYYYMMDD folder.
func ImageName(day string) string {
	return imageKind + "_" + day + ".png"
}
