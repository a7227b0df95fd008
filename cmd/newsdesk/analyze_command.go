package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"llm-news-desk/internal/llm"
	"llm-news-desk/internal/types"
)

func newAnalyzeCommand(configPath *string) *cobra.Command {
	var title, body, link string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one item through both analyzers and print the insight as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return errors.New("--title is required")
			}
			if err := initializeSystem(); err != nil {
				return err
			}
			defer shutdownSystem(context.Background())
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			synth, err := initializeSynthesizer(ctx, cfg, llm.NewRegistry())
			if err != nil {
				return err
			}

			insight := synth.Synthesize(ctx, types.NewsItem{Title: title, Body: body, Link: link})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(insight); err != nil {
				return fmt.Errorf("encode insight: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "News headline")
	cmd.Flags().StringVar(&body, "body", "", "News body")
	cmd.Flags().StringVar(&link, "link", "", "Article URL")
	return cmd
}
