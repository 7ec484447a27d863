package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent recording runs",
	Long: `Lists run summaries saved with 'perfdiff record --history', newest
first: when the run happened, which artifact it wrote, the measured
command, the number of input files and the total reference cycles.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of runs to list (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit := historyLimit
	if limit <= 0 {
		limit = viper.GetInt("history.limit")
	}

	hs, err := historyStoreFactory()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hs.Close()

	runs, err := hs.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs yet. Use 'perfdiff record --history' to save one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WHEN\tARTIFACT\tCOMMAND\tFILES\tTOTAL REF-CYCLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Artifact, run.Command, run.Files, run.TotalRefCycles)
	}
	return w.Flush()
}
