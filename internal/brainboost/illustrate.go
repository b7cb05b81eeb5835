package brainboost

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/assets"
	"homehub/internal/content"
	"homehub/internal/llm"
	"homehub/internal/logging"
)

// chooseArtist asks the text model for an artist, falling back to the built-in
// list when the reply is unusable or the call fails.
func (g *Generator) chooseArtist(ctx context.Context, subject string) string {
	reply, err := llm.Ask(ctx, g.Text, content.ArtistSystem, content.ArtistPrompt(subject),
		llm.Options{MaxTokens: 20, Temperature: 0.9})
	if err != nil {
		logging.From(ctx).Warn("artist choice failed, using fallback list", "error", err)
		reply = ""
	}
	return content.NormalizeArtist(reply, g.Rand)
}

// illustrate produces and publishes one image for kind. Nothing is written
// unless the download succeeds, so the previous pointer stays in place on
// failure.
func (g *Generator) illustrate(ctx context.Context, token assets.RunToken, kind, subject string) (assets.Stored, error) {
	logger := logging.From(ctx).With("kind", kind)

	artist := g.chooseArtist(ctx, subject)
	logger.Info("creating image", "style", artist)

	url, err := g.Images.GenerateImage(ctx, llm.ImageRequest{Prompt: content.ImagePrompt(artist, subject)})
	if err != nil {
		return assets.Stored{}, goerr.Wrap(err, "image generation failed", goerr.V("kind", kind), goerr.V("prompt", subject))
	}
	data, err := g.Fetch.Fetch(ctx, url)
	if err != nil {
		return assets.Stored{}, goerr.Wrap(err, "image download failed", goerr.V("kind", kind))
	}
	stored, err := g.Rotator.Store(ctx, kind, token, data)
	if err != nil {
		return assets.Stored{}, err
	}
	logger.Info("✓ image published", "served", stored.Served, "style", artist)
	return stored, nil
}

// storePlaceholder publishes the built-in image so the kind always has a
// readable pointer.
func (g *Generator) storePlaceholder(ctx context.Context, token assets.RunToken, kind string) (assets.Stored, error) {
	stored, err := g.Rotator.Store(ctx, kind, token, assets.Placeholder())
	if err != nil {
		return assets.Stored{}, goerr.Wrap(err, "placeholder publish failed", goerr.V("kind", kind))
	}
	logging.From(ctx).Warn("published placeholder image", "kind", kind)
	return stored, nil
}
