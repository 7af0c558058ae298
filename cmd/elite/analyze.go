package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/api/handler"
	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeType    string
	analyzeNarrate bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol> [symbol...]",
	Short: "Analyse instruments and print the results as JSON",
	Long: `Analyse one instrument, or several in parallel. One symbol prints a
single object; several print an array in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", "equity", "instrument type (equity, crypto)")
	analyzeCmd.Flags().BoolVar(&analyzeNarrate, "narrate", false, "add an LLM-written summary")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	typ, err := core.ParseInstrumentType(analyzeType)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if analyzeNarrate && cfg.LLM.Provider != "" {
		cfg.Narrator.Enabled = true
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if analyzeNarrate && a.Narrator() == nil {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("--narrate requires llm.provider"))
	}

	var results []*analysis.CompositeAnalysis
	if len(args) == 1 {
		result, err := a.Service().Analyze(ctx, args[0], typ)
		if err != nil {
			return err
		}
		results = []*analysis.CompositeAnalysis{result}
	} else {
		results, err = a.Service().Scan(ctx, typ, args)
		if err != nil {
			return err
		}
	}

	out := make([]handler.AnalysisResponse, len(results))
	for i, result := range results {
		out[i] = handler.AnalysisResponse{Analysis: result}
		if !analyzeNarrate {
			continue
		}
		text, err := a.Narrator().Narrate(ctx, result)
		if err != nil {
			log.Warn("narration failed", zap.String("symbol", result.Symbol), zap.Error(err))
		}
		out[i].Narrative = text
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if len(out) == 1 {
		return enc.Encode(out[0])
	}
	return enc.Encode(out)
}
