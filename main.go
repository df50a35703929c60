package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"healthchat/analysis"
	"healthchat/config"
	"healthchat/model"
	"healthchat/ocr"
	"healthchat/ollama"
	"healthchat/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

var (
	flagEndpoint  string
	flagOCREngine string
	flagDebug     bool
	flagSave      bool
)

var rootCmd = &cobra.Command{
	Use:   "healthchat",
	Short: "Terminal client for a symptom analysis service",
	Long: `healthchat sends symptom descriptions, or text read from an attached image,
to an analysis service and shows the replies as a conversation.

Example:
  healthchat --endpoint http://localhost:3000/analyze
  healthchat --ocr-engine ollama`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models of the configured Ollama OCR server",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEndpoint, "endpoint", "e", "", "Analysis service URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOCREngine, "ocr-engine", "", "OCR engine: tesseract, ollama, openai, anthropic")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write a debug log to the data directory")
	rootCmd.Flags().BoolVar(&flagSave, "save", false, "Write --endpoint and --ocr-engine to config.toml")
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagEndpoint != "" {
		cfg.Analysis.Endpoint = flagEndpoint
	}
	if flagOCREngine != "" {
		cfg.OCR.Engine = flagOCREngine
	}
	return cfg, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		errorModal := ui.NewErrorModal("Configuration Error", fmt.Sprintf(
			"%v\n\nFix the setting in %s/config.toml or pass it as a flag, then start healthchat again.",
			err, cfg.DataDir()))
		p := tea.NewProgram(errorModal, tea.WithAltScreen())
		if _, runErr := p.Run(); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		return err
	}

	config.InitDebugLog(cfg.DataDir(), flagDebug)

	if flagSave {
		if err := config.SaveOverrides(cfg.DataDir(), flagEndpoint, flagOCREngine); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("Saved flag overrides to %s/config.toml", cfg.DataDir())
		}
	}

	recognizer, err := ocr.NewRecognizer(ocr.ConfigFromSettings(cfg.OCR))
	if err != nil {
		// image turns fail with an "unavailable" error; text turns still work
		recognizer = nil
		if config.DebugLog != nil {
			config.DebugLog.Printf("[OCR] engine %s unavailable: %v", cfg.OCR.Engine, err)
		}
	}

	opts, err := model.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	session := model.NewSession()
	analyzer := analysis.NewClient(cfg.Analysis.Endpoint, nil)
	dataModel := model.NewModel(session, recognizer, analyzer, opts)

	if config.DebugLog != nil {
		config.DebugLog.Printf("Starting healthchat %s: session=%s endpoint=%s ocr=%s policy=%s throttle=%v",
			Version, session.ID, analyzer.Endpoint(), cfg.OCR.Engine, opts.Policy, cfg.Chat.InputThrottle)
	}

	p := tea.NewProgram(ui.NewAppView(cfg, dataModel), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running healthchat: %w", err)
	}
	return nil
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := ollama.NewClient(cfg.OCR.BaseURL, cfg.OCR.Model)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connecting to ollama at %s: %w", client.BaseURL(), err)
	}
	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	if len(models) == 0 {
		fmt.Printf("No models installed on %s\n", client.BaseURL())
		return nil
	}
	for _, m := range models {
		marker := " "
		if m.Vision {
			marker = "*"
		}
		current := ""
		if m.Name == client.GetModel() {
			current = "  (configured)"
		}
		fmt.Printf("%s %-40s %8.1f GB%s\n", marker, m.Name, float64(m.Size)/(1<<30), current)
	}
	fmt.Println("\n* can read images")
	return nil
}
