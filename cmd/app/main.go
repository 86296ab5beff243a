package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"academic-integrity-simulator/internal/client"
	"academic-integrity-simulator/internal/config"
	"academic-integrity-simulator/internal/logger"
	"academic-integrity-simulator/internal/service"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{})
}

func newRootCmdFor(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "studentsim",
		Short:        "Academic Integrity Simulator",
		Long:         "Ask an AI 'student' questions and let a second AI judge whether the answer looks like original work.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.NewViper(configDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				debug, _ := cmd.Flags().GetBool("debug")
				v.Set("log.debug", debug)
			}

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			a.v = v
			a.cfg = cfg
			a.logger = logger.New(cfg.Log.Debug)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.yaml (default ./config, then .)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd(a), newChatCmd(a))
	return cmd
}

func (a *app) newBackend() client.Backend {
	ai := a.cfg.AI
	switch ai.Provider {
	case config.ProviderOpenAI:
		model := ai.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return client.NewOpenAIClient(ai.BaseURL, model, ai.TimeoutSeconds, a.logger)
	default:
		return client.NewGeminiClient(ai.BaseURL, ai.Model, ai.TimeoutSeconds, a.logger)
	}
}

func (a *app) newPipeline(opts ...service.PipelineOption) *service.PipelineService {
	backend := a.newBackend()
	a.logger.Info("completion backend ready",
		zap.String("backend", backend.Name()),
		zap.Duration("retry_backoff", a.cfg.Retry.Backoff()),
		zap.Int("max_retries", a.cfg.Retry.MaxRetries),
	)

	completion := service.NewCompletionService(
		backend,
		config.NewCredentials(a.v),
		service.WithRetryPolicy(a.cfg.Retry.Backoff(), uint64(a.cfg.Retry.MaxRetries)),
		service.WithCompletionLogger(a.logger),
	)
	return service.NewPipelineService(completion, append(opts, service.WithPipelineLogger(a.logger))...)
}
