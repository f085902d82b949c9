package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List indexed output sets",
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		showAll, _ := cmd.Flags().GetBool("all")

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		outputs, err := s.ListOutputs(!showAll)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing outputs: %v\n", err)
			os.Exit(1)
		}
		if len(outputs) == 0 {
			fmt.Println("No output sets indexed. Run 'persp generate' or 'persp sync'.")
			return
		}

		for _, o := range outputs {
			rows, _ := s.GetPerspectives(o.ID)
			line := fmt.Sprintf("%-40s #%s  %2d perspectives", o.Name(), docid(o.Hash), len(rows))
			if score, ok, _ := s.GetScore(o.Approach, o.Topic); ok {
				line += fmt.Sprintf("  score %.4f", score)
			}
			if !o.Active {
				line += "  (inactive)"
			}
			fmt.Println(line)
		}
	},
}

func init() {
	lsCmd.Flags().BoolP("all", "a", false, "Include deactivated sets")
	rootCmd.AddCommand(lsCmd)
}
