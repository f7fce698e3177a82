package cli

import (
	"fmt"

	"fastresume/internal/common"
	"fastresume/internal/config"
	"fastresume/internal/store"
	"fastresume/internal/types"

	"github.com/spf13/cobra"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy --role ROLE [resume.json]",
	Short: "Build an interview and upskilling strategy for a target role",
	Long: `Build a career strategy for a target role: how to close each skill gap,
likely interview questions with suggested answers, and upgrades to existing
portfolio projects.

Results are saved to the local history unless --no-save is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStrategy,
}

var (
	strategyConfig   common.CommandConfig
	strategyRole     string
	strategyMissing  []string
	strategyProjects string
	strategyNoSave   bool
)

func init() {
	addOutputFlags(strategyCmd, &strategyConfig)
	strategyCmd.Flags().StringVar(&strategyRole, "role", "", "Target role (required)")
	strategyCmd.Flags().StringSliceVar(&strategyMissing, "missing", nil, "Skills the candidate is missing, comma separated")
	strategyCmd.Flags().StringVar(&strategyProjects, "projects", "", "JSON file with a list of portfolio projects")
	strategyCmd.Flags().BoolVar(&strategyNoSave, "no-save", false, "Do not save the result to history")
	_ = strategyCmd.MarkFlagRequired("role")
}

func runStrategy(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := newAIService(cfg, config.OperationStrategy, logger)
	if err != nil {
		return err
	}
	defer func() { _ = aiService.Close() }()

	var history *store.HistoryStore
	if !strategyNoSave {
		history = openHistory(cfg, logger)
		defer closeHistory(history, logger)
	}

	createInput := func(fp *common.FileProcessor) (types.CareerStrategyInput, error) {
		resume, projects, err := readProfile(fp, args, strategyProjects)
		if err != nil {
			return types.CareerStrategyInput{}, err
		}
		return types.CareerStrategyInput{
			TargetRole:    strategyRole,
			MissingSkills: strategyMissing,
			Projects:      projects,
			Resume:        resume,
		}, nil
	}

	logDetails := func(input types.CareerStrategyInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting career strategy",
			"target_role", input.TargetRole,
			"missing_skills", len(input.MissingSkills),
			"projects", len(input.Projects),
			"output_format", cmdCfg.OutputFormat)
	}

	persist := saveTo(history, store.KindCareerStrategy, !strategyNoSave, logger,
		func(in types.CareerStrategyInput, out types.CareerStrategy) any {
			return types.StrategyRecord{TargetRole: in.TargetRole, CareerStrategy: out}
		})

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		strategyConfig,
		cfg.App.MaxFileSize,
		createInput,
		aiService.GenerateCareerStrategy,
		logDetails,
		persist,
	)
	if err != nil {
		return fmt.Errorf("failed to build career strategy: %w", err)
	}
	logger.Info("Career strategy completed successfully")
	return nil
}
