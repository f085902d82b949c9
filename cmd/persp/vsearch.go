package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/llm"
	"github.com/spf13/cobra"
)

var vsearchCmd = &cobra.Command{
	Use:   "vsearch [query]",
	Short: "Semantic similarity search over perspectives",
	Long:  "Search using vector embeddings over reasoning texts. Run 'persp embed' or 'persp score' first.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("n")
		topic, _ := cmd.Flags().GetString("topic")
		minScore, _ := cmd.Flags().GetFloat64("min-score")
		format := getFormatFlag(cmd)

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		model := os.Getenv("PERSP_EMBED_MODEL")
		if model == "" {
			model = cfg.EmbedModel
		}

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		client := llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, model)
		emb, err := client.Embed(query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error embedding query: %v\n", err)
			os.Exit(1)
		}

		fetchLimit := limit
		if topic != "" {
			fetchLimit = limit * 4
		}
		results, err := s.SearchVectorsBrute(emb.Embedding, model, fetchLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Println("No embeddings found. Run 'persp embed' first.")
			return
		}

		var rows []SearchOutputRow
		for _, r := range results {
			if r.Score < minScore {
				continue
			}
			if topic != "" && r.Topic != topic {
				continue
			}
			rows = append(rows, SearchOutputRow{
				Docid:  docid(r.Hash),
				Name:   r.Name,
				Num:    r.Num,
				Stance: r.Stance,
				Reason: r.Reason,
				Score:  r.Score,
				Note:   config.FindNote(cfg, r.Topic, r.Approach),
			})
			if len(rows) >= limit {
				break
			}
		}

		if len(rows) == 0 {
			fmt.Println("No results found.")
			return
		}
		WriteSearchOutput(rows, format)
	},
}

func init() {
	vsearchCmd.Flags().IntP("n", "n", 5, "Number of results")
	vsearchCmd.Flags().StringP("topic", "t", "", "Restrict to topic")
	vsearchCmd.Flags().Float64("min-score", 0.3, "Minimum score threshold")
	vsearchCmd.Flags().String("format", "cli", "Output: cli, json, csv, md")
	vsearchCmd.Flags().Bool("json", false, "JSON output")
	vsearchCmd.Flags().Bool("csv", false, "CSV output")
	vsearchCmd.Flags().Bool("md", false, "Markdown output")
	rootCmd.AddCommand(vsearchCmd)
}
