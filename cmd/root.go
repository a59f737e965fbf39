package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vlbdotgo/vlbgo/config"
	"github.com/vlbdotgo/vlbgo/vlb"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *vlb.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vlbgo",
	Short: "Query the VLB book catalog from the command line",
	Long: `vlbgo is a CLI for the VLB (Verzeichnis Lieferbarer Buecher) API.
It searches the catalog with paginated queries, looks up products, covers,
media files, index entries and publishers, and narrows search results with
filter expressions.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp loads the configuration and logs in to VLB
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	opts := []vlb.Option{
		vlb.WithBaseURL(cfg.VLB.URL),
		vlb.WithTimeout(cfg.VLB.Timeout),
		vlb.WithUserAgent(cfg.VLB.UserAgent),
		vlb.WithRateLimit(cfg.VLB.RateLimit, cfg.VLB.RateBurst),
		vlb.WithConcurrency(cfg.VLB.Concurrency),
	}

	var err error
	if cfg.VLB.HasToken() {
		client, err = vlb.NewClientWithToken(cfg.VLB.Token, logger, opts...)
	} else {
		client, err = vlb.NewClient(commandContext(cmd), cfg.VLB.Username, cfg.VLB.Password, logger, opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to create VLB client: %w", err)
	}

	return nil
}

// loadConfig loads the configuration and sets up the logger
func loadConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colour only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// commandContext returns the command's context or a background one
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printJSON writes v as indented JSON to stdout
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
