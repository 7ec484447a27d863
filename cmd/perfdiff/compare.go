package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"perfdiff/internal/compare"
	"perfdiff/internal/store"
	"perfdiff/internal/ui"
)

var compareCmd = &cobra.Command{
	Use:   "compare <base-file> <compared-file>",
	Short: "Compare two recorded result sets",
	Long: `Loads two artifacts produced by 'perfdiff record' and prints the
percentage change of each metric for every file present in both.
Files present on only one side are skipped silently. Deltas above the
threshold are highlighted as regressions, below as improvements.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Float64("threshold", 0.1, "Neutral band half-width in percent for highlighting")
	viper.BindPFlag("threshold", compareCmd.Flags().Lookup("threshold"))
}

func runCompare(cmd *cobra.Command, args []string) error {
	base, err := store.ReadArtifact(args[0])
	if err != nil {
		return fmt.Errorf("load base artifact: %w", err)
	}
	compared, err := store.ReadArtifact(args[1])
	if err != nil {
		return fmt.Errorf("load compared artifact: %w", err)
	}

	deltas := compare.Diff(base, compared)
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderComparison(deltas, viper.GetFloat64("threshold")))
	return nil
}
