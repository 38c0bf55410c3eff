// Package cli implements the ytqa command line.
//
// Commands obtain their services lazily through a bootstrap function set by
// main, so commands like `ytqa version` never read configuration.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// Services are the core services the commands drive.
type Services struct {
	// Settings manages the config file.
	Settings driving.SettingsService

	// Questions returns the question pipeline, creating it on first use.
	Questions func(ctx context.Context) (driving.QuestionService, error)

	// WatchPrompts reloads prompt templates on change until ctx is done.
	// Optional.
	WatchPrompts func(ctx context.Context) error

	// Close releases provider clients and stores. Optional.
	Close func() error
}

// Bootstrap builds the services for the given config file path.
type Bootstrap func(configPath string) (*Services, error)

var (
	version = "dev"

	bootstrap Bootstrap
	services  *Services

	verbose    bool
	configPath string
	logFile    string

	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var rootCmd = &cobra.Command{
	Use:   "ytqa",
	Short: "Ask questions about YouTube videos",
	Long: `ytqa answers questions about a YouTube video using its transcript.

The transcript is fetched once, split into chunks and indexed. Each question
retrieves the most relevant chunks and passes them to a language model.

Provider credentials are read from the environment or a .env file:
  GOOGLE_API_KEY, HUGGINGFACEHUB_ACCESS_TOKEN, OPENAI_API_KEY, OLLAMA_HOST`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ytqa.toml", "settings file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")
}

// SetVersion sets the version printed by `ytqa version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services on first use.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices injects ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if closeErr := closeServices(); closeErr != nil {
		logger.Warn("close: %v", closeErr)
	}
	_ = logger.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setupLogging(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logFile != "" {
		if err := logger.SetLogFile(logFile); err != nil {
			return fmt.Errorf("log file: %w", err)
		}
	}
	return nil
}

func loadServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}

	s, err := bootstrap(configPath)
	if err != nil {
		return nil, err
	}
	services = s
	return services, nil
}

func settingsService() (driving.SettingsService, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return s.Settings, nil
}

func questionService(ctx context.Context) (driving.QuestionService, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.Questions == nil {
		return nil, errors.New("question service not configured")
	}
	return s.Questions(ctx)
}

// watchPrompts starts the prompt watcher when available. Failures only warn.
func watchPrompts(ctx context.Context) {
	s, err := loadServices()
	if err != nil || s.WatchPrompts == nil {
		return
	}
	if err := s.WatchPrompts(ctx); err != nil {
		logger.Warn("Prompts: not watching: %v", err)
	}
}

func closeServices() error {
	if services == nil || services.Close == nil {
		return nil
	}
	return services.Close()
}
