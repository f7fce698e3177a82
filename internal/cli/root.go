package cli

import (
	"context"
	"fmt"

	"fastresume/internal/ai"
	"fastresume/internal/common"
	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/store"

	"github.com/spf13/cobra"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "fastresume",
	Short: "Score, tailor and lay out resumes with AI",
	Long: `fastresume scores a resume against a job description, rewrites it for
the role, predicts career paths and builds interview strategies using AI.
It can also suggest gap-filling projects, answer career coaching questions
and summarize documents for a portfolio.

It also paginates a structured resume for print, keeps a local history of
results and can serve everything over HTTP.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg and logger available to every
// subcommand through the context.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	setContext(rootCmd, ctx)
	return rootCmd.Execute()
}

// setContext replaces the context on the whole tree. Cobra only hands the
// root context to subcommands that have none yet.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// newAIService builds the AI service of one operation. Tests swap it for a
// service backed by a fake provider.
var newAIService = func(cfg *config.Config, operation string, logger *errors.Logger) (*ai.Service, error) {
	opCfg, err := cfg.OperationConfig(operation)
	if err != nil {
		return nil, err
	}
	svc, err := ai.NewService(&opCfg, operation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}
	return svc, nil
}

// addOutputFlags registers -o and --format on cmd, resolving the format
// against the configuration before the command runs.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		format, err := common.ResolveOutputFormat(cmdConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		cmdConfig.OutputFormat = format
		return nil
	}
}

// openHistory opens the history database. Commands keep working without
// history, so failure is logged and reported as a nil store.
func openHistory(cfg *config.Config, logger *errors.Logger) *store.HistoryStore {
	history, err := store.Open(cfg.App.DataDir)
	if err != nil {
		logger.LogError(err, "History is unavailable", "data_dir", cfg.App.DataDir)
		return nil
	}
	return history
}

func closeHistory(history *store.HistoryStore, logger *errors.Logger) {
	if history == nil {
		return
	}
	if err := history.Close(); err != nil {
		logger.LogError(err, "Failed to close history database")
	}
}

// saveTo returns a persist hook that stores results of kind, or nil when
// saving is off or history is unavailable.
func saveTo[Input, Output any](history *store.HistoryStore, kind store.Kind, enabled bool,
	logger *errors.Logger, record func(Input, Output) any) common.PersistFunc[Input, Output] {
	if !enabled || history == nil {
		return nil
	}
	return func(ctx context.Context, in Input, out Output) error {
		rec, err := history.Save(ctx, kind, record(in, out))
		if err != nil {
			return err
		}
		logger.Info("Saved to history", "kind", kind, "id", rec.ID)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(strategyCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
