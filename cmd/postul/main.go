package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RealAndrewRen/postul/internal/api"
	"github.com/RealAndrewRen/postul/internal/config"
)

var debug bool

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "postul",
		Short: "Voice idea capture: record, transcribe, analyze",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newCaptureCmd())
	rootCmd.AddCommand(newMemoCmd())
	rootCmd.AddCommand(newIdeasCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// newAPIClient builds a standalone API client for the read-only commands.
func newAPIClient() (*api.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if !debug {
		config.SetLogLevel(cfg.LogLevel)
	}

	client := api.New(cfg.API.BaseURL,
		api.WithTimeouts(cfg.API.Timeout, cfg.API.AnalyzeTimeout),
		api.WithBearerToken(cfg.API.Token),
		api.WithDebugLogging(debug),
	)
	return client, cfg, nil
}
