package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/depgate/internal/history"
	"github.com/aidanlsb/depgate/internal/ui"
)

var (
	historyLimit int
	historyPrune int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent gate runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(history.Path("."))
		if err != nil {
			if isJSONOutput() {
				outputError(ErrHistoryUnavailable, err.Error(), nil, "")
			}
			return err
		}
		defer store.Close()

		if changedFlag(cmd.Flags(), "prune") {
			if err := store.Prune(historyPrune); err != nil {
				return err
			}
		}

		runs, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}

		if isJSONOutput() {
			outputSuccess(runs)
			return nil
		}

		if len(runs) == 0 {
			fmt.Println(ui.Hint("no recorded runs"))
			return nil
		}
		for _, run := range runs {
			verdict := ui.Success("passed")
			if run.Failed > 0 {
				verdict = ui.Error(fmt.Sprintf("%d failed", run.Failed))
			}
			fmt.Printf("#%d  %s  %s  %d queries  %s  %s\n",
				run.ID,
				run.StartedAt.Local().Format(time.DateTime),
				suiteLabel(run.Suite),
				run.Total,
				verdict,
				ui.Hint(run.Elapsed.Round(time.Millisecond).String()))
		}
		return nil
	},
}

func suiteLabel(suite string) string {
	if suite == "" || suite == "default" {
		return ui.Hint("-")
	}
	return ui.Selector(suite)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().IntVar(&historyPrune, "prune", 0, "Delete all but the newest N runs first")
	rootCmd.AddCommand(historyCmd)
}
