package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove orphaned data and vacuum the study DB",
	Long: `Remove content rows and cached embeddings no longer referenced by an
active output set, then vacuum the database. With --cache, also clear
the model response cache.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		clearCache, _ := cmd.Flags().GetBool("cache")

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			return
		}
		defer s.Close()

		orphan, err := s.CleanupOrphanedContent()
		if err != nil {
			fmt.Printf("Error cleaning orphaned content: %v\n", err)
		} else if orphan > 0 {
			fmt.Printf("Removed %d orphaned content hash(es)\n", orphan)
		}

		res, err := s.DB.Exec(`DELETE FROM embeddings WHERE reason_hash NOT IN (
			SELECT p.reason_hash FROM perspectives p
			JOIN outputs o ON o.id = p.output_id AND o.active = 1
		)`)
		if err != nil {
			fmt.Printf("Error cleaning orphaned embeddings: %v\n", err)
		} else if n, _ := res.RowsAffected(); n > 0 {
			fmt.Printf("Removed %d orphaned embedding(s)\n", n)
		}

		if clearCache {
			n, err := s.ClearResponseCache()
			if err != nil {
				fmt.Printf("Error clearing response cache: %v\n", err)
			} else {
				fmt.Printf("Cleared %d cached response(s)\n", n)
			}
		}

		if _, err := s.DB.Exec(`VACUUM`); err != nil {
			fmt.Printf("Vacuum failed: %v\n", err)
		} else {
			fmt.Println("Database vacuumed")
		}
	},
}

func init() {
	cleanupCmd.Flags().Bool("cache", false, "Also clear the model response cache")
	rootCmd.AddCommand(cleanupCmd)
}
