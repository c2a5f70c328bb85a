package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/project-aether/aether/internal/config"
	"github.com/project-aether/aether/internal/debate"
	"github.com/project-aether/aether/internal/evidence"
	"github.com/project-aether/aether/internal/llm"
	"github.com/project-aether/aether/internal/output"
	"github.com/project-aether/aether/internal/pipeline"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Stress-test a report end to end",
		RunE:  runAnalyze,
	}
	cmd.Flags().String("report", "", "Path to the report file (required)")
	cmd.Flags().Int("rounds", 0, "Debate rounds per factor (overrides DEBATE_ROUNDS)")
	cmd.Flags().Int("max-factors", 0, "Maximum factors to extract (overrides MAX_FACTORS)")
	cmd.Flags().Bool("quiet", false, "Suppress per-turn output")
	cmd.MarkFlagRequired("report")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	reportPath, _ := cmd.Flags().GetString("report")
	rounds, _ := cmd.Flags().GetInt("rounds")
	maxFactors, _ := cmd.Flags().GetInt("max-factors")
	quiet, _ := cmd.Flags().GetBool("quiet")
	envFile, _ := cmd.Root().PersistentFlags().GetString("env-file")
	logLevel, _ := cmd.Root().PersistentFlags().GetString("log-level")

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rounds > 0 {
		cfg.DebateRounds = rounds
	}
	if maxFactors > 0 {
		cfg.MaxFactors = maxFactors
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	reportText, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient := &http.Client{Timeout: 120 * time.Second}
	registry := llm.NewRegistry(
		llm.NewOpenAIProvider(cfg.OpenAIKey, httpClient),
		llm.NewAnthropicProvider(cfg.AnthropicKey, httpClient),
		llm.NewGroqProvider(cfg.GroqKey, httpClient),
		llm.NewOllamaProvider(cfg.OllamaLocalURL, cfg.OllamaRemoteURL, cfg.OllamaLocalList, httpClient, log),
	)
	caller := llm.NewClient(registry, llm.DefaultOptions(), log)

	collector := evidence.NewCollector(evidence.NopSearcher{}, evidence.NopScraper{},
		cfg.MaxSearchResults, cfg.MaxScrapedPages, log)

	var sink pipeline.Sink = pipeline.NopSink{}
	if cfg.SaveTranscripts {
		sink = pipeline.FileSink{Dir: cfg.OutputDir}
	}

	runner := pipeline.NewRunner(ctx, pipeline.Config{
		ProModelA:          cfg.ProModel1,
		ProModelB:          cfg.ProModel2,
		ConModelA:          cfg.ConModel1,
		ConModelB:          cfg.ConModel2,
		JudgeModel:         cfg.JudgeModel,
		Rounds:             cfg.DebateRounds,
		MaxArgumentWords:   cfg.MaxArgumentLength,
		MaxFactors:         cfg.MaxFactors,
		MaxTranscriptChars: cfg.MaxTranscriptChars,
		JudgeTimeout:       cfg.JudgeTimeout,
		Anonymize:          cfg.EnableAnonymize,
	}, caller, collector, sink, log)

	printer := output.Printer{}
	printer.Banner("PROJECT AETHER")
	runner.OnStage = func(_ string, stage pipeline.Stage, progress string) {
		printer.Stage(stage, progress)
	}
	if !quiet {
		runner.OnTurn = func(_ string, turn debate.Turn) {
			printer.Turn(turn)
		}
	}

	jobID, err := runner.Submit(string(reportText))
	if err != nil {
		return err
	}
	if err := runner.Wait(jobID); err != nil {
		return err
	}

	state, err := runner.Status(jobID)
	if err != nil {
		return err
	}
	if state.Status == pipeline.StatusFailed {
		return fmt.Errorf("analysis failed: %s", state.Error)
	}

	for _, result := range state.Results {
		printer.Verdict(result.Factor, result.Verdict)
	}
	printer.Summary(state.Report)
	if cfg.SaveTranscripts {
		fmt.Printf("\nArtifacts saved to: %s\n", cfg.OutputDir)
	}
	return nil
}
