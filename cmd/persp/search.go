package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over perspectives (BM25)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("n")
		topic, _ := cmd.Flags().GetString("topic")
		all, _ := cmd.Flags().GetBool("all")
		minScore, _ := cmd.Flags().GetFloat64("min-score")
		format := getFormatFlag(cmd)

		if all && limit == 5 {
			limit = 100000
		}

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		results, err := s.SearchFTS(query, limit, topic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}

		cfg, _ := config.LoadConfig()
		var rows []SearchOutputRow
		for _, r := range results {
			if r.Score < minScore {
				continue
			}
			note := ""
			if cfg != nil {
				note = config.FindNote(cfg, r.Topic, r.Approach)
			}
			rows = append(rows, SearchOutputRow{
				Docid:    docid(r.Hash),
				Name:     r.Name,
				Num:      r.Num,
				Stance:   r.Stance,
				Criteria: r.Criteria,
				Reason:   r.Reason,
				Score:    r.Score,
				Note:     note,
			})
		}

		if len(rows) == 0 {
			fmt.Println("No results found.")
			return
		}
		WriteSearchOutput(rows, format)
	},
}

func init() {
	searchCmd.Flags().IntP("n", "n", 5, "Number of results")
	searchCmd.Flags().StringP("topic", "t", "", "Restrict to topic")
	searchCmd.Flags().Bool("all", false, "Return all matches (use with --min-score)")
	searchCmd.Flags().Float64("min-score", 0, "Minimum score threshold")
	searchCmd.Flags().String("format", "cli", "Output: cli, json, csv, md")
	searchCmd.Flags().Bool("json", false, "JSON output (short for --format=json)")
	searchCmd.Flags().Bool("csv", false, "CSV output")
	searchCmd.Flags().Bool("md", false, "Markdown output")
	rootCmd.AddCommand(searchCmd)
}
