package main

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/logger"
	"github.com/spf13/cobra"
)

var (
	historyType   string
	historyLatest bool
)

var historyCmd = &cobra.Command{
	Use:   "history <symbol>",
	Short: "List archived analyses for an instrument",
	Long: `List the archive entries recorded for an instrument, oldest first.
With --latest the most recent analysis is printed as JSON instead.
Requires archive.enabled in the config.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyType, "type", "t", "equity", "instrument type (equity, crypto)")
	historyCmd.Flags().BoolVar(&historyLatest, "latest", false, "print the most recent analysis")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	typ, err := core.ParseInstrumentType(historyType)
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

	rec := a.Recorder()
	if rec == nil {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("history requires archive.enabled"))
	}

	ctx := cmd.Context()
	if historyLatest {
		latest, err := rec.Latest(ctx, typ, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(latest)
	}

	paths, err := rec.History(ctx, typ, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprintf(out, "no archived analyses for %s\n", args[0])
		return nil
	}
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}
