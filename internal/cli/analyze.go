package cli

import (
	"fmt"

	"fastresume/internal/common"
	"fastresume/internal/config"
	"fastresume/internal/store"
	"fastresume/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-description-file] [resume-file]",
	Short: "Score a resume against a job description and rewrite it for the role",
	Long: `Analyze a resume against a job description. The result includes:
- An overall match score with a per-criterion breakdown
- Hard, soft and missing skills
- An optimized resume rewritten for the role
- A cover letter

The resume may be plain text, markdown or a PDF with a text layer.
Results are saved to the local history unless --no-save is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

var (
	analyzeConfig  common.CommandConfig
	analyzeVariant string
	analyzeNoSave  bool
)

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
	analyzeCmd.Flags().StringVar(&analyzeVariant, "variant", "", "English spelling: American, British or Australian (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Do not save the result to history")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	variant := types.EnglishVariant(cfg.App.EnglishVariant)
	if analyzeVariant != "" {
		variant = types.EnglishVariant(analyzeVariant)
	}
	if !variant.Valid() {
		return fmt.Errorf("unsupported English variant %q", variant)
	}

	aiService, err := newAIService(cfg, config.OperationAnalyze, logger)
	if err != nil {
		return err
	}
	defer func() { _ = aiService.Close() }()

	var history *store.HistoryStore
	if !analyzeNoSave {
		history = openHistory(cfg, logger)
		defer closeHistory(history, logger)
	}

	createInput := func(fp *common.FileProcessor) (types.AnalyzeResumeInput, error) {
		jd, err := fp.ReadText(args[0])
		if err != nil {
			return types.AnalyzeResumeInput{}, err
		}
		resume, err := fp.ReadResume(args[1])
		if err != nil {
			return types.AnalyzeResumeInput{}, err
		}
		return types.AnalyzeResumeInput{
			JobDescription: jd,
			Resume:         resume,
			EnglishVariant: variant,
		}, nil
	}

	logDetails := func(input types.AnalyzeResumeInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"job_chars", len(input.JobDescription),
			"resume_chars", len(input.Resume),
			"english_variant", input.EnglishVariant,
			"output_format", cmdCfg.OutputFormat)
	}

	persist := saveTo(history, store.KindAnalysis, !analyzeNoSave, logger,
		func(_ types.AnalyzeResumeInput, out types.AnalysisResult) any { return out })

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		cfg.App.MaxFileSize,
		createInput,
		aiService.AnalyzeResume,
		logDetails,
		persist,
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
