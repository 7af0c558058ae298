package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/logger"
	"github.com/newthinker/elite/internal/service"
	"github.com/spf13/cobra"
)

var (
	hotType  string
	hotLimit int
	hotJSON  bool
)

var hotCmd = &cobra.Command{
	Use:   "hot [symbol...]",
	Short: "Rank the most active instruments",
	Long: `Analyse a universe of instruments in parallel and rank them by
|change%|*0.7 + log10(volume)*0.3. Without symbols the configured scan
universe for --type is used.`,
	RunE: runHot,
}

func init() {
	hotCmd.Flags().StringVarP(&hotType, "type", "t", "equity", "instrument type (equity, crypto)")
	hotCmd.Flags().IntVarP(&hotLimit, "limit", "n", 10, "number of instruments to show (0 = all)")
	hotCmd.Flags().BoolVar(&hotJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(hotCmd)
}

func runHot(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	typ, err := core.ParseInstrumentType(hotType)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, log)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	items, err := a.Service().Hot(ctx, typ, args, hotLimit)
	if err != nil {
		return err
	}

	if hotJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	printHotTable(cmd, items)
	return nil
}

func printHotTable(cmd *cobra.Command, items []service.HotItem) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSYMBOL\tPRICE\tCHANGE%\tHOT\tSCORE\tRECOMMENDATION")
	for i, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%+.2f\t%.2f\t%.1f\t%s\n",
			i+1, it.Symbol, it.Price, it.ChangePercent, it.HotScore,
			it.Analysis.OverallScore, it.Analysis.Recommendation)
	}
	w.Flush()
}
