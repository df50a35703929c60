package config

import "time"

const (
	DefaultEndpoint        = "https://healthai-backend-2.onrender.com/analyze"
	DefaultAnalysisTimeout = 30 * time.Second
	DefaultOCRTimeout      = 60 * time.Second
	DefaultRevealDelay     = 8 * time.Millisecond
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/healthchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Analysis: AnalysisConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  Duration{DefaultAnalysisTimeout},
		},
		OCR: OCRConfig{
			Engine:   "tesseract",
			Language: "eng",
			Timeout:  Duration{DefaultOCRTimeout},
		},
		Chat: ChatConfig{
			RevealDelay:       Duration{DefaultRevealDelay},
			ConcurrencyPolicy: "overlap",
			InputThrottle:     true,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# healthchat System Configuration
# Location: ~/.config/healthchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the user config, keybindings and debug log are stored
data_directory = "~/.local/share/healthchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# healthchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[analysis]
# Remote service that turns a symptom description into an explanation
endpoint = "` + DefaultEndpoint + `"

# Requests taking longer than this are reported as failed (no automatic retry)
timeout = "30s"

[ocr]
# Text recognition engine used for attached images:
#   tesseract - local tesseract binary (default)
#   ollama    - local vision model served by Ollama (e.g. llava)
#   openai    - OpenAI vision model (requires api_key)
#   anthropic - Claude vision model (requires api_key)
engine = "tesseract"

# Language hint passed to the engine
language = "eng"

# Optional engine settings
# model = "llava:latest"
# base_url = "http://localhost:11434"
# api_key = ""
# binary = "tesseract"

timeout = "60s"

[chat]
# Delay between revealed characters of a reply
reveal_delay = "8ms"

# What happens when a message is sent while another one is still in flight:
#   overlap   - both run at once, each reply stays in its own slot
#   serialize - the new message waits until the previous reply is complete
concurrency_policy = "overlap"

# Disable the input box while a reply is in flight
input_throttle = true
`
}
