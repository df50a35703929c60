package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/ollama/ollama/api"

	"healthchat/config"
	"healthchat/model"
	"healthchat/ollama"
)

// OllamaRecognizer reads text with a vision model served by a local Ollama.
type OllamaRecognizer struct {
	client *ollama.Client
}

func NewOllamaRecognizer(baseURL, modelName string) (*OllamaRecognizer, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, err
	}
	if !ollama.SupportsVision(client.GetModel()) && config.DebugLog != nil {
		config.DebugLog.Printf("[OCR] WARNING: model %s is not a known vision model", client.GetModel())
	}
	return &OllamaRecognizer{client: client}, nil
}

func (o *OllamaRecognizer) Name() string {
	return string(EngineOllama)
}

func (o *OllamaRecognizer) Model() string {
	return o.client.GetModel()
}

func (o *OllamaRecognizer) ExtractText(ctx context.Context, img *model.Image) (string, error) {
	text, err := o.client.ChatWithImage(ctx, visionPrompt, img.Data)
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", recognitionError(o.Name(), statusErr.StatusCode, err)
		}
		return "", recognitionError(o.Name(), 0, fmt.Errorf("ollama at %s: %w", o.client.BaseURL(), err))
	}
	return text, nil
}
