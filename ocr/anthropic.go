package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"healthchat/model"
)

// Media types accepted by the Messages API for base64 image blocks.
var anthropicImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AnthropicRecognizer reads text with a Claude vision model.
type AnthropicRecognizer struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
}

// NewAnthropicRecognizer creates a Claude-backed recognizer.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.anthropic.com")
//   - apiKey: API key (required)
//   - model: model name (default: claude-sonnet-4-5)
func NewAnthropicRecognizer(baseURL, apiKey, modelName string) (*AnthropicRecognizer, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if modelName != "" {
		anthropicModel = anthropic.Model(modelName)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &AnthropicRecognizer{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
	}, nil
}

func (a *AnthropicRecognizer) Name() string {
	return string(EngineAnthropic)
}

func (a *AnthropicRecognizer) ExtractText(ctx context.Context, img *model.Image) (string, error) {
	if !anthropicImageTypes[img.MIMEType] {
		return "", &model.RecognitionError{
			Kind:   model.KindUnavailable,
			Engine: a.Name(),
			Err:    fmt.Errorf("unsupported image type %s", img.MIMEType),
		}
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MIMEType, img.Base64()),
				anthropic.NewTextBlock(visionPrompt),
			),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", recognitionError(a.Name(), apiErr.StatusCode, err)
		}
		return "", recognitionError(a.Name(), 0, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	return text.String(), nil
}
