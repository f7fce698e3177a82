package cli

import (
	"fmt"
	"strings"

	"fastresume/internal/common"
	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest-project SKILL [resume.json]",
	Short: "Suggest a portfolio project that proves a missing skill",
	Long: `Suggest one concrete project the candidate can build to prove SKILL,
based on the optional structured resume.

When the model is unavailable a generic self-directed project is returned.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSuggest,
}

var coachCmd = &cobra.Command{
	Use:   "coach MESSAGE",
	Short: "Ask the career coach a question",
	Long: `Ask the career coach a question. Earlier turns of the conversation can be
given with --transcript, a JSON list of {"role":"user"|"model","text":...}
messages; MESSAGE is appended as the last user turn.

The coach sees the optional resume, the first part of the job description
and the portfolio health score.`,
	Args: cobra.ExactArgs(1),
	RunE: runCoach,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize DOCUMENT",
	Short: "Summarize a report or project document for a portfolio",
	Long: `Summarize a report, assignment or project write-up as a professional
achievement with a few competency keywords. PDF files have their text layer
extracted; anything else is read as text.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

var (
	suggestConfig common.CommandConfig

	coachConfig     common.CommandConfig
	coachResume     string
	coachJD         string
	coachTranscript string
	coachHealth     int

	summarizeConfig  common.CommandConfig
	summarizeContext string
)

func init() {
	addOutputFlags(suggestCmd, &suggestConfig)

	addOutputFlags(coachCmd, &coachConfig)
	coachCmd.Flags().StringVar(&coachResume, "resume", "", "Structured resume JSON file")
	coachCmd.Flags().StringVar(&coachJD, "jd", "", "Job description file")
	coachCmd.Flags().StringVar(&coachTranscript, "transcript", "", "JSON file with the earlier conversation")
	coachCmd.Flags().IntVar(&coachHealth, "health", 0, "Portfolio health score, 0-100")

	addOutputFlags(summarizeCmd, &summarizeConfig)
	summarizeCmd.Flags().StringVar(&summarizeContext, "context", "", "Background on the document's author")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := newAIService(cfg, config.OperationSuggest, logger)
	if err != nil {
		return err
	}
	defer func() { _ = aiService.Close() }()

	createInput := func(fp *common.FileProcessor) (types.ProjectSuggestionInput, error) {
		input := types.ProjectSuggestionInput{Skill: strings.TrimSpace(args[0])}
		if input.Skill == "" {
			return input, errors.NewValidationError(errors.ErrCodeInvalidRequest, "skill must not be empty", nil)
		}
		resume, _, err := readProfile(fp, args[1:], "")
		if err != nil {
			return input, err
		}
		input.Resume = resume
		return input, nil
	}

	logDetails := func(input types.ProjectSuggestionInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting project suggestion",
			"skill", input.Skill,
			"has_resume", input.Resume != nil,
			"output_format", cmdCfg.OutputFormat)
	}

	err = common.RunAICommand(cmd.Context(), logger, suggestConfig, cfg.App.MaxFileSize,
		createInput, aiService.SuggestProject, logDetails, nil)
	if err != nil {
		return fmt.Errorf("failed to suggest project: %w", err)
	}
	return nil
}

func runCoach(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := newAIService(cfg, config.OperationCoach, logger)
	if err != nil {
		return err
	}
	defer func() { _ = aiService.Close() }()

	createInput := func(fp *common.FileProcessor) (types.CoachInput, error) {
		var input types.CoachInput
		if coachTranscript != "" {
			if err := fp.ReadJSON(coachTranscript, &input.Messages); err != nil {
				return input, err
			}
		}
		input.Messages = append(input.Messages, types.ChatMessage{Role: "user", Text: args[0]})

		if coachResume != "" {
			input.Resume = &types.ResumeContent{}
			if err := fp.ReadJSON(coachResume, input.Resume); err != nil {
				return input, err
			}
		}
		if coachJD != "" {
			if input.JobDescription, err = fp.ReadText(coachJD); err != nil {
				return input, err
			}
		}
		if cmd.Flags().Changed("health") {
			input.HealthScore = &coachHealth
		}

		if err := validator.New().Struct(input); err != nil {
			return input, errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid coach conversation", err)
		}
		return input, nil
	}

	logDetails := func(input types.CoachInput, cmdCfg common.CommandConfig) {
		logger.Info("Asking the career coach",
			"messages", len(input.Messages),
			"has_resume", input.Resume != nil,
			"has_jd", input.JobDescription != "",
			"output_format", cmdCfg.OutputFormat)
	}

	err = common.RunAICommand(cmd.Context(), logger, coachConfig, cfg.App.MaxFileSize,
		createInput, aiService.Coach, logDetails, nil)
	if err != nil {
		return fmt.Errorf("failed to get coach reply: %w", err)
	}
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := newAIService(cfg, config.OperationSummarize, logger)
	if err != nil {
		return err
	}
	defer func() { _ = aiService.Close() }()

	createInput := func(fp *common.FileProcessor) (types.DocumentSummaryInput, error) {
		text, err := fp.ReadResume(args[0])
		if err != nil {
			return types.DocumentSummaryInput{}, err
		}
		if strings.TrimSpace(text) == "" {
			return types.DocumentSummaryInput{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s is empty", args[0]), nil)
		}
		return types.DocumentSummaryInput{Text: text, Context: summarizeContext}, nil
	}

	logDetails := func(input types.DocumentSummaryInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting document summary",
			"document", args[0],
			"text_length", len(input.Text),
			"output_format", cmdCfg.OutputFormat)
	}

	err = common.RunAICommand(cmd.Context(), logger, summarizeConfig, cfg.App.MaxFileSize,
		createInput, aiService.SummarizeDocument, logDetails, nil)
	if err != nil {
		return fmt.Errorf("failed to summarize document: %w", err)
	}
	return nil
}
