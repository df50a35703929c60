package ocr

import (
	"fmt"

	"healthchat/model"
)

// NewRecognizer creates the engine selected by cfg.Engine.
//
// Returns an error if the engine is unknown or its constructor rejects the
// settings, e.g. a cloud engine without an API key.
func NewRecognizer(cfg Config) (model.Recognizer, error) {
	switch cfg.Engine {
	case EngineTesseract, "":
		return NewTesseractRecognizer(cfg.Binary, cfg.Language), nil
	case EngineOllama:
		return NewOllamaRecognizer(cfg.BaseURL, cfg.Model)
	case EngineOpenAI:
		return NewOpenAIRecognizer(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case EngineAnthropic:
		return NewAnthropicRecognizer(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown ocr engine: %s", cfg.Engine)
	}
}
