package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"llm-news-desk/internal/feed"
	"llm-news-desk/internal/llm"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/notify"
	"llm-news-desk/internal/persistence"
	"llm-news-desk/internal/pipeline"
	"llm-news-desk/internal/report"
	"llm-news-desk/internal/types"
)

// ErrAlreadyRunning is returned when another run holds the lock file.
var ErrAlreadyRunning = errors.New("another newsdesk run is in progress")

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Analyze the latest feed items and publish the briefing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPipeline(ctx, *configPath, cmd.OutOrStdout())
		},
	}
}

func runPipeline(ctx context.Context, configPath string, out io.Writer) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer shutdownSystem(context.Background())

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	lock := flock.New(cfg.Run.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", cfg.Run.LockFile, err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	source, err := feed.New(cfg)
	if err != nil {
		return err
	}

	stores, err := persistence.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()
	stores.Compact(ctx, time.Now())

	registry := llm.NewRegistry()
	synth, err := initializeSynthesizer(ctx, cfg, registry)
	if err != nil {
		return err
	}
	editor, err := initializeEditor(ctx, cfg, registry)
	if err != nil {
		return err
	}
	reporter := report.New(cfg, editor, notify.New(cfg))

	orchestrator := pipeline.New(cfg, source, synth, stores, reporter)
	summary, err := orchestrator.Run(ctx)
	if summary != nil {
		renderSummary(out, summary)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Run failed", err)
		return err
	}
	return nil
}

func renderSummary(out io.Writer, summary *types.RunSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Run " + summary.RunID)
	tw.AppendHeader(table.Row{"#", "Title", "Bull", "Bear", "Sentiment", "Stored"})

	for i, item := range summary.Items {
		stored := "yes"
		if !item.Stored {
			stored = "no"
		}
		tw.AppendRow(table.Row{
			i + 1,
			truncateTitle(item.Insight.Item.Title, 60),
			item.Insight.Opportunity.BullScore,
			item.Insight.Risk.BearScore,
			string(item.Insight.Sentiment),
			stored,
		})
	}

	reportState := "none"
	if summary.Report != nil {
		reportState = "generated, delivered=" + strconv.FormatBool(summary.Report.Delivered)
	}
	tw.AppendFooter(table.Row{"", "Report", "", "", reportState, ""})
	tw.Render()
}

func truncateTitle(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
