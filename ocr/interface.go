// Package ocr turns attached images into text for the conversation
// controller.
//
// Every engine implements model.Recognizer. The controller only sees that
// interface, so engines can be swapped from config without touching the
// turn pipeline.
//
// # Engines
//
//   - tesseract: the local tesseract binary, fed the image on stdin
//   - ollama: a local vision model served by Ollama (llava and friends)
//   - openai: an OpenAI vision model through the official SDK
//   - anthropic: a Claude vision model through the official SDK
//
// # Errors
//
// Engines report failures as *model.RecognitionError so the controller can
// tell a missing engine (KindUnavailable) from a timeout (KindTimeout), a
// rejected request (KindStatus) or a transport problem (KindNetwork).
//
// # Usage
//
//	rec, err := ocr.NewRecognizer(ocr.Config{
//	    Engine:   ocr.EngineTesseract,
//	    Language: "eng",
//	})
//	if err != nil {
//	    // handle error
//	}
//	text, err := rec.ExtractText(ctx, img)
package ocr

import "healthchat/config"

// EngineType identifies a recognizer implementation.
type EngineType string

const (
	EngineTesseract EngineType = "tesseract"
	EngineOllama    EngineType = "ollama"
	EngineOpenAI    EngineType = "openai"
	EngineAnthropic EngineType = "anthropic"
)

// DefaultLanguage is the language hint used when none is configured.
const DefaultLanguage = "eng"

// Config holds engine settings. Fields an engine does not use are ignored.
type Config struct {
	Engine   EngineType
	Language string
	Model    string
	BaseURL  string
	APIKey   string
	Binary   string // tesseract only
}

// ConfigFromSettings maps the [ocr] section of the user config.
func ConfigFromSettings(c config.OCRConfig) Config {
	return Config{
		Engine:   EngineType(c.Engine),
		Language: c.Language,
		Model:    c.Model,
		BaseURL:  c.BaseURL,
		APIKey:   c.APIKey,
		Binary:   c.Binary,
	}
}

// visionPrompt asks a general vision model to behave like an OCR engine.
const visionPrompt = "Transcribe all text visible in this image exactly as written. " +
	"Reply with the transcribed text only, without commentary. " +
	"If the image contains no text, reply with nothing."
