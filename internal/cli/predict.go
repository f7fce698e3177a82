package cli

import (
	"fmt"

	"fastresume/internal/common"
	"fastresume/internal/config"
	"fastresume/internal/types"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict [resume.json]",
	Short: "Predict career paths from a resume and portfolio",
	Long: `Predict where a career can go next. The prediction is built from a
structured resume (JSON, as produced by analyze), a portfolio of projects, or
both, and includes:
- The current seniority level
- A skill trajectory for the coming years
- Candidate roles with match, salary range and a step-by-step plan
- An overall action plan

When the model is unavailable a generic prediction is returned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPredict,
}

var (
	predictConfig   common.CommandConfig
	predictProjects string
	predictRole     string
	predictJD       string
)

func init() {
	addOutputFlags(predictCmd, &predictConfig)
	predictCmd.Flags().StringVar(&predictProjects, "projects", "", "JSON file with a list of portfolio projects")
	predictCmd.Flags().StringVar(&predictRole, "role", "", "Target role to weigh the prediction towards")
	predictCmd.Flags().StringVar(&predictJD, "jd", "", "Job description file for the target role")
}

func runPredict(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && predictProjects == "" {
		return fmt.Errorf("a resume file or --projects is required")
	}

	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := newAIService(cfg, config.OperationPredict, logger)
	if err != nil {
		return err
	}
	defer func() { _ = aiService.Close() }()

	createInput := func(fp *common.FileProcessor) (types.PredictCareerInput, error) {
		resume, projects, err := readProfile(fp, args, predictProjects)
		if err != nil {
			return types.PredictCareerInput{}, err
		}
		input := types.PredictCareerInput{
			Projects:   projects,
			Resume:     resume,
			TargetRole: predictRole,
		}
		if predictJD != "" {
			if input.TargetJD, err = fp.ReadText(predictJD); err != nil {
				return types.PredictCareerInput{}, err
			}
		}
		return input, nil
	}

	logDetails := func(input types.PredictCareerInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting career prediction",
			"projects", len(input.Projects),
			"has_resume", input.Resume != nil,
			"target_role", input.TargetRole,
			"output_format", cmdCfg.OutputFormat)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		predictConfig,
		cfg.App.MaxFileSize,
		createInput,
		aiService.PredictCareer,
		logDetails,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to predict career: %w", err)
	}
	logger.Info("Career prediction completed successfully")
	return nil
}

// readProfile loads the optional resume argument and projects file.
func readProfile(fp *common.FileProcessor, args []string, projectsFile string) (*types.ResumeContent, []types.Project, error) {
	var resume *types.ResumeContent
	if len(args) > 0 {
		resume = &types.ResumeContent{}
		if err := fp.ReadJSON(args[0], resume); err != nil {
			return nil, nil, err
		}
	}

	projects := []types.Project{}
	if projectsFile != "" {
		if err := fp.ReadJSON(projectsFile, &projects); err != nil {
			return nil, nil, err
		}
	}
	return resume, projects, nil
}
