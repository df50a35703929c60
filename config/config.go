package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AnalysisConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

type OCRConfig struct {
	Engine   string   `toml:"engine"`
	Language string   `toml:"language"`
	Model    string   `toml:"model,omitempty"`
	BaseURL  string   `toml:"base_url,omitempty"`
	APIKey   string   `toml:"api_key,omitempty"`
	Binary   string   `toml:"binary,omitempty"`
	Timeout  Duration `toml:"timeout"`
}

type ChatConfig struct {
	RevealDelay       Duration `toml:"reveal_delay"`
	ConcurrencyPolicy string   `toml:"concurrency_policy"`
	InputThrottle     bool     `toml:"input_throttle"`
}

type UserConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	OCR      OCRConfig      `toml:"ocr"`
	Chat     ChatConfig     `toml:"chat"`
}

// Config is the merged runtime configuration.
type Config struct {
	DataDirectory string
	Analysis      AnalysisConfig
	OCR           OCRConfig
	Chat          ChatConfig
	Keybindings   *KeyBindingsConfig
}

// Duration lets TOML files carry values like "30s" or "8ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var Debug = false
var DebugLog *log.Logger

var (
	validEngines  = []string{"tesseract", "ollama", "openai", "anthropic"}
	validPolicies = []string{"overlap", "serialize"}
)

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.Analysis = u.Analysis
	c.OCR = u.OCR
	c.Chat = u.Chat
}

func (c *Config) applyEnvOverrides() {
	if endpoint := os.Getenv("HEALTHCHAT_ENDPOINT"); endpoint != "" {
		c.Analysis.Endpoint = endpoint
	}
	if engine := os.Getenv("HEALTHCHAT_OCR_ENGINE"); engine != "" {
		c.OCR.Engine = engine
	}
	if key := os.Getenv("HEALTHCHAT_OCR_API_KEY"); key != "" {
		c.OCR.APIKey = key
	}
	if dataDir := os.Getenv("HEALTHCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

// Validate reports the first setting that would prevent the client from working.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Analysis.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("analysis endpoint must be an http(s) URL, got %q", c.Analysis.Endpoint)
	}
	if c.Analysis.Timeout.Duration <= 0 {
		return fmt.Errorf("analysis timeout must be positive")
	}
	if c.OCR.Timeout.Duration <= 0 {
		return fmt.Errorf("ocr timeout must be positive")
	}
	if c.Chat.RevealDelay.Duration < 0 {
		return fmt.Errorf("reveal delay cannot be negative")
	}
	if !contains(validEngines, c.OCR.Engine) {
		return fmt.Errorf("unknown ocr engine %q (valid: %v)", c.OCR.Engine, validEngines)
	}
	if !contains(validPolicies, c.Chat.ConcurrencyPolicy) {
		return fmt.Errorf("unknown concurrency policy %q (valid: %v)", c.Chat.ConcurrencyPolicy, validPolicies)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func CheckDebug() bool {
	debug := os.Getenv("HEALTHCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <dataDir>/debug.log when debugging is requested either
// through HEALTHCHAT_DEBUG or the force flag. DebugLog stays nil otherwise.
func InitDebugLog(dataDir string, force bool) {
	if !force && !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: requests and OCR output may contain health information
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (HEALTHCHAT_DEBUG=%s) ===", os.Getenv("HEALTHCHAT_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Default returns the built-in configuration without touching the filesystem.
func Default() *Config {
	user := DefaultUserConfig()
	cfg := &Config{
		DataDirectory: DefaultSystemConfig().DataDirectory,
		Keybindings:   DefaultKeybindings(),
	}
	cfg.applyUserConfig(user)
	return cfg
}

func Load() (*Config, error) {
	cfg := Default()

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory

	// HEALTHCHAT_DATA_DIR must win before the user config is located
	if dataDir := os.Getenv("HEALTHCHAT_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	kb, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	cfg.Keybindings = kb

	return cfg, nil
}
