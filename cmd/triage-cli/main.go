package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/mikey/llm-email-triage/internal/adapters/filter"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(func(
		logger *zap.Logger,
		cliFilter *filter.CliFilter,
		llmClient core.LLMClient,
	) error {
		defer logger.Sync()
		defer func() {
			if closer, ok := llmClient.(interface{ Close() error }); ok {
				if err := closer.Close(); err != nil {
					logger.Error("Failed to close LLM client", zap.Error(err))
				}
			}
		}()

		sub, err := readSubmission(flags, logger)
		if err != nil {
			return err
		}

		result, err := cliFilter.ProcessSubmission(context.Background(), sub)
		if err != nil {
			return err
		}
		if result.Status != core.StatusSuccess {
			return fmt.Errorf("model reply could not be used: %s", result.Message)
		}
		return nil
	}); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// readSubmission builds a submission from -text, -file or stdin, in that order
func readSubmission(flags *di.CLIFlags, logger *zap.Logger) (*core.EmailSubmission, error) {
	if flags.Text != "" {
		return &core.EmailSubmission{RawText: flags.Text}, nil
	}

	if flags.InputFile != "" {
		content, err := os.ReadFile(flags.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file %s: %w", flags.InputFile, err)
		}
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))

		contentType := mime.TypeByExtension(filepath.Ext(flags.InputFile))
		if contentType == "" {
			contentType = "text/plain"
		}
		return &core.EmailSubmission{
			File: &core.UploadedFile{
				Filename:    filepath.Base(flags.InputFile),
				ContentType: contentType,
				Content:     content,
			},
		}, nil
	}

	logger.Info("Reading email from stdin")
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return &core.EmailSubmission{RawText: string(content)}, nil
}
