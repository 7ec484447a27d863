package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"perfdiff/internal/measure"
	"perfdiff/internal/perf"
	"perfdiff/internal/store"
	"perfdiff/internal/ui"
)

var recordHistory bool

// openCounters allows substituting fake counters in tests.
var openCounters = func() (measure.Counters, error) {
	return perf.Open()
}

// historyStoreFactory allows mocking the history store in tests.
var historyStoreFactory = func() (store.HistoryStore, error) {
	return store.NewSQLiteStore(viper.GetString("history.path"))
}

var recordCmd = &cobra.Command{
	Use:   "record <command> <output-file> <input-file>...",
	Short: "Measure a command's hardware counters over a set of input files",
	Long: `Runs <command> once per input file (the file is appended as the final
argument) under reference-cycle and instruction counters, scales the
readings for counter multiplexing, and writes the result set to
<output-file> as pretty-printed JSON.

The output file must not already exist; an existing file is an error,
never an overwrite. A non-zero exit status from the measured command is
recorded like a success, so broken runs stay visible in the baseline.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().BoolVar(&recordHistory, "history", false, "Append a run summary to the history database")
}

func runRecord(cmd *cobra.Command, args []string) error {
	template := args[0]
	output := args[1]
	inputs := args[2:]

	// Refuse the run before a single measurement is taken; the artifact
	// write below is O_EXCL as well, so there is no check-then-write race.
	if _, err := os.Stat(output); err == nil {
		return fmt.Errorf("output file %s already exists, refusing to overwrite", output)
	}

	counters, err := openCounters()
	if err != nil {
		return fmt.Errorf("open hardware counters: %w", err)
	}
	defer counters.Close()

	results, err := measure.Record(counters, template, inputs)
	if err != nil {
		return err
	}

	if err := store.WriteArtifact(output, results); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSummary(results))

	if recordHistory {
		if err := saveRunHistory(output, template, results); err != nil {
			return fmt.Errorf("save run history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run recorded in history (%s)\n", viper.GetString("history.path"))
	}

	return nil
}

func saveRunHistory(artifact, command string, results store.ResultSet) error {
	hs, err := historyStoreFactory()
	if err != nil {
		return err
	}
	defer hs.Close()

	var total uint64
	for _, meas := range results {
		total += meas.RefCycles
	}
	return hs.SaveRun(store.Run{
		Artifact:       artifact,
		Command:        command,
		Files:          len(results),
		TotalRefCycles: int64(total),
	})
}
