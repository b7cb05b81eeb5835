package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Options tunes a single completion. Zero values leave provider defaults.
type Options struct {
	MaxTokens   int
	Temperature float32
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	GenerateWithOptions(ctx context.Context, messages []Message, opts Options) (Response, error)
}

type ImageRequest struct {
	Prompt  string
	Size    string
	Quality string
	Style   string
}

// ImageGenerator returns a URL for the generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// Ask sends a system + user exchange and returns the trimmed reply.
func Ask(ctx context.Context, c Client, system, prompt string, opts Options) (string, error) {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	msgs = append(msgs, Message{Role: "user", Content: prompt})
	resp, err := c.GenerateWithOptions(ctx, msgs, opts)
	if err != nil {
		return "", err
	}
	return trimReply(resp.Content), nil
}
