package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client     *openai.Client
	model      string
	imageModel string
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func NewOpenAI(apiKey, baseURL, model, imageModel, referrer, title string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	// Optional headers for OpenRouter
	if referrer != "" || title != "" {
		h := http.Header{}
		if referrer != "" {
			h.Set("HTTP-Referer", referrer)
		}
		if title != "" {
			h.Set("X-Title", title)
		}
		config.HTTPClient = &http.Client{Transport: headerTransport{rt: http.DefaultTransport, headers: h}}
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(config),
		model:      model,
		imageModel: imageModel,
	}
}

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	return c.GenerateWithOptions(ctx, messages, Options{})
}

func (c *OpenAIClient) GenerateWithOptions(ctx context.Context, messages []Message, opts Options) (Response, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, goerr.Wrap(err, "failed to create chat completion", goerr.V("model", c.model))
	}
	if len(resp.Choices) == 0 {
		return Response{}, goerr.New("chat completion returned no choices", goerr.V("model", c.model))
	}

	return Response{
		Content:          resp.Choices[0].Message.Content,
		Model:            c.model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, r ImageRequest) (string, error) {
	req := openai.ImageRequest{
		Prompt:         r.Prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           orDefault(r.Size, openai.CreateImageSize1024x1024),
		Quality:        orDefault(r.Quality, openai.CreateImageQualityStandard),
		Style:          orDefault(r.Style, openai.CreateImageStyleVivid),
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}
	resp, err := c.client.CreateImage(ctx, req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create image", goerr.V("model", c.imageModel))
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", goerr.New("image response carried no url", goerr.V("model", c.imageModel))
	}
	return resp.Data[0].URL, nil
}

// ListModels returns the model IDs visible to the API key.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list models")
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func trimReply(s string) string {
	return strings.TrimSpace(s)
}
