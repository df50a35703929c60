package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"healthchat/model"
)

// OpenAIRecognizer reads text with an OpenAI vision model.
type OpenAIRecognizer struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenAIRecognizer creates an OpenAI-backed recognizer.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.openai.com/v1")
//   - apiKey: API key (required)
//   - model: vision-capable model (default: "gpt-4o-mini")
func NewOpenAIRecognizer(baseURL, apiKey, modelName string) (*OpenAIRecognizer, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &OpenAIRecognizer{
		client:  client,
		model:   modelName,
		baseURL: baseURL,
	}, nil
}

func (o *OpenAIRecognizer) Name() string {
	return string(EngineOpenAI)
}

func (o *OpenAIRecognizer) ExtractText(ctx context.Context, img *model.Image) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(visionPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: img.DataURL(),
				}),
			}),
		},
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", recognitionError(o.Name(), apiErr.StatusCode, err)
		}
		return "", recognitionError(o.Name(), 0, err)
	}
	if len(resp.Choices) == 0 {
		return "", &model.RecognitionError{
			Kind:   model.KindDecode,
			Engine: o.Name(),
			Err:    errors.New("response has no choices"),
		}
	}
	return resp.Choices[0].Message.Content, nil
}
