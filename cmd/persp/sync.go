package main

import (
	"fmt"
	"os"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/syncer"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index output files into the study store",
	Long: `Scan the outputs directory and mirror it into the study index:
new files are indexed, changed files re-indexed, deleted files deactivated.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		pattern, _ := cmd.Flags().GetString("pattern")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if outputDir == "" {
			outputDir = cfg.OutputsDir
		}
		if _, err := os.Stat(outputDir); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Output directory %q not found.\n", outputDir)
			os.Exit(1)
		}

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		sum, err := syncer.SyncOutputs(s, outputDir, pattern, cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Indexed %d new, %d updated, %d removed", sum.Indexed, sum.Updated, sum.Removed)
		if sum.Skipped > 0 {
			fmt.Printf(" (%d skipped)", sum.Skipped)
		}
		fmt.Println()
	},
}

func init() {
	syncCmd.Flags().String("pattern", "", "Glob pattern for output files (default: *.json)")
	syncCmd.Flags().StringP("output-dir", "o", "", "Directory containing output JSON files (default: from config)")
	rootCmd.AddCommand(syncCmd)
}
