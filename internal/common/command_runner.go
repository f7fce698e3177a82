package common

import (
	"context"
	"fmt"
	"os"

	"fastresume/internal/ai"
	"fastresume/internal/errors"
)

// CreateInputFunc builds the AI input from the command's input files.
type CreateInputFunc[Input any] func(fp *FileProcessor) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is a generic function signature for any AI operation with context and token usage.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// PersistFunc stores a finished result. It may be nil.
type PersistFunc[Input, Output any] func(context.Context, Input, Output) error

// RunAICommand reads the inputs, runs the AI operation, persists the result
// and writes it out. A failed persist is logged but does not fail the
// command.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	maxFileSize int64,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
	persist PersistFunc[Input, Output],
) error {
	fileProcessor := NewFileProcessor(logger, maxFileSize)
	outputHandler := NewOutputHandler(logger)

	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	input, err := createInput(fileProcessor)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return err
	}

	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	if persist != nil {
		if err := persist(ctx, input, result); err != nil && logger != nil {
			logger.LogError(err, "Failed to save result to history")
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
