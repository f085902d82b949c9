package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/llm"
	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate vector embeddings for perspective reasons",
	Long: `Embed every distinct reasoning text from indexed output sets that is
not yet cached. Vectors back both scoring and semantic search.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		force, _ := cmd.Flags().GetBool("force")

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

		if force {
			fmt.Fprintln(os.Stderr, "Force re-embedding: clearing all vectors...")
			if err := s.ClearEmbeddings(); err != nil {
				fmt.Fprintf(os.Stderr, "Error clearing embeddings: %v\n", err)
				os.Exit(1)
			}
		}

		reasons, err := s.ReasonsNeedingEmbedding(model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing reasons: %v\n", err)
			os.Exit(1)
		}
		if len(reasons) == 0 {
			fmt.Println("All reasons already have embeddings.")
			return
		}

		client := llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, model)
		fmt.Printf("Embedding %d reasons, model: %s\n\n", len(reasons), model)

		embedded := 0
		errors := 0
		now := time.Now()
		for i, r := range reasons {
			result, err := client.Embed(r.Reason)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error embedding %s [%d]: %v\n", r.Name, r.Num, err)
				errors++
				continue
			}
			if err := s.PutEmbedding(r.Hash, model, result.Embedding, now); err != nil {
				fmt.Fprintf(os.Stderr, "Error caching embedding: %v\n", err)
				errors++
				continue
			}
			embedded++
			fmt.Fprintf(os.Stderr, "\rEmbedded %d/%d reasons...", i+1, len(reasons))
		}
		fmt.Fprintln(os.Stderr)

		elapsed := time.Since(now).Seconds()
		fmt.Printf("Done. Embedded %d reasons in %.1fs", embedded, elapsed)
		if errors > 0 {
			fmt.Printf(" (%d errors)", errors)
		}
		fmt.Println()
	},
}

func init() {
	embedCmd.Flags().BoolP("force", "f", false, "Force re-embedding (clear all vectors first)")
	rootCmd.AddCommand(embedCmd)
}
