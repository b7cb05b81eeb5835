package llm

import (
	"context"

	"github.com/Morwran/yagpt"
	"github.com/m-mizutani/goerr/v2"
)

type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	// Create IAM token from OAuth token
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init yandex iam")
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create iam token")
	}

	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init yagpt", goerr.V("folder", folderID))
	}

	return &YandexClient{
		ya:       ya,
		iamToken: resp.IamToken,
	}, nil
}

func (c *YandexClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	return c.GenerateWithOptions(ctx, messages, Options{})
}

// GenerateWithOptions ignores opts; the yagpt client does not expose sampling
// or length controls.
func (c *YandexClient) GenerateWithOptions(ctx context.Context, messages []Message, _ Options) (Response, error) {
	yaMsgs := make([]yagpt.Message, 0, len(messages))
	for _, m := range messages {
		yaMsgs = append(yaMsgs, yagpt.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, yaMsgs)
	if err != nil {
		return Response{}, goerr.Wrap(err, "yagpt completion failed")
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, goerr.New("yagpt returned empty response")
	}
	return Response{
		Content:          resp.Alternatives[0].Message.Content,
		Model:            yagpt.YaModelLite,
		PromptTokens:     int(resp.Usage.InputTextTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}
