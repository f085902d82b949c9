package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ba0f3/persp/internal/chart"
	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/diversity"
	"github.com/ba0f3/persp/internal/llm"
	"github.com/ba0f3/persp/internal/store"
	"github.com/ba0f3/persp/internal/syncer"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score semantic diversity of generated perspectives",
	Long: `Compute the semantic diversity of every output set: embed each
perspective's reasoning, then average the pairwise cosine distances.
Embeddings are cached per reason, so only new text hits the API.
Writes diversity_scores.txt and diversity_chart.html next to the outputs.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		outputDir, _ := cmd.Flags().GetString("output-dir")
		noChart, _ := cmd.Flags().GetBool("no-chart")
		force, _ := cmd.Flags().GetBool("force")
		savePath, _ := cmd.Flags().GetString("save")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if outputDir == "" {
			outputDir = cfg.OutputsDir
		}

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		if _, err := os.Stat(outputDir); err == nil {
			if _, err := syncer.SyncOutputs(s, outputDir, "", cfg.Model); err != nil {
				fmt.Fprintf(os.Stderr, "Error indexing outputs: %v\n", err)
				os.Exit(1)
			}
		}

		outputs, err := s.ListOutputs(true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing outputs: %v\n", err)
			os.Exit(1)
		}
		if len(outputs) == 0 {
			fmt.Println("No output sets indexed. Run 'persp generate' first.")
			return
		}

		client := llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, cfg.EmbedModel)
		now := time.Now()

		var results []diversity.Result
		fileScores := make(map[string]float64)

		for _, o := range outputs {
			fmt.Printf("Processing: %s\n", o.Filename)

			rows, err := s.GetPerspectives(o.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  Error reading perspectives: %v\n", err)
				continue
			}
			var reasons []string
			for _, p := range rows {
				if p.Reason != "" {
					reasons = append(reasons, p.Reason)
				}
			}
			fmt.Printf("  Found %d reasons\n", len(reasons))
			if len(reasons) < 2 {
				fmt.Println("  Warning: need at least 2 reasons to score diversity, skipping")
				continue
			}

			vecs := make([][]float32, 0, len(reasons))
			fetched := 0
			failed := false
			for _, reason := range reasons {
				hash := store.HashContent(reason)
				var vec []float32
				var ok bool
				if !force {
					vec, ok, err = s.GetEmbedding(hash, cfg.EmbedModel)
					if err != nil {
						fmt.Fprintf(os.Stderr, "  Error reading embedding cache: %v\n", err)
						failed = true
						break
					}
				}
				if !ok {
					result, err := client.Embed(reason)
					if err != nil {
						fmt.Fprintf(os.Stderr, "  Error embedding reason: %v\n", err)
						failed = true
						break
					}
					vec = result.Embedding
					if err := s.PutEmbedding(hash, cfg.EmbedModel, vec, now); err != nil {
						fmt.Fprintf(os.Stderr, "  Error caching embedding: %v\n", err)
					}
					fetched++
				}
				vecs = append(vecs, vec)
			}
			if failed {
				continue
			}
			if fetched > 0 {
				fmt.Printf("  Embedded %d new reasons (model: %s)\n", fetched, cfg.EmbedModel)
			}

			score := diversity.MeanPairwiseDistance(vecs)
			fmt.Printf("  Semantic diversity score: %.4f\n\n", score)

			if err := s.UpsertScore(o.Approach, o.Topic, score, len(reasons), cfg.EmbedModel, now); err != nil {
				fmt.Fprintf(os.Stderr, "  Error storing score: %v\n", err)
			}
			results = append(results, diversity.Result{
				Approach: o.Approach,
				Topic:    o.Topic,
				Score:    score,
				Reasons:  len(reasons),
			})
			fileScores[o.Filename] = score
		}

		if len(results) == 0 {
			fmt.Println("Nothing scored.")
			return
		}

		printScoreSummary(fileScores)

		byTopic := diversity.GroupByTopic(results)
		scoresPath := savePath
		if scoresPath == "" {
			scoresPath = filepath.Join(outputDir, "diversity_scores.txt")
		}
		if err := writeScoresFile(scoresPath, fileScores, byTopic); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing scores file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nNumerical results saved to %s\n", scoresPath)

		if noChart {
			return
		}
		topicOrder := diversity.OrderTopics(byTopic, config.TopicOrder(cfg))
		chartPath := filepath.Join(outputDir, "diversity_chart.html")
		f, err := os.Create(chartPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating chart file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := chart.Render(f, results, topicOrder); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Chart saved to %s\n", chartPath)
	},
}

func printScoreSummary(fileScores map[string]float64) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("SUMMARY OF SEMANTIC DIVERSITY SCORES")
	fmt.Println(strings.Repeat("=", 60))
	for _, filename := range sortedKeys(fileScores) {
		fmt.Printf("%-50s %.4f\n", filename, fileScores[filename])
	}
}

func writeScoresFile(path string, fileScores map[string]float64, byTopic map[string]map[string]float64) error {
	var b strings.Builder
	b.WriteString("SEMANTIC DIVERSITY SCORES\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString("Individual File Scores:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, filename := range sortedKeys(fileScores) {
		fmt.Fprintf(&b, "%-50s %.4f\n", filename, fileScores[filename])
	}

	b.WriteString("\n\nScores Grouped by Topic:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	for _, topic := range topics {
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(topic))
		for _, approach := range sortedKeys(byTopic[topic]) {
			fmt.Fprintf(&b, "  %-30s %.4f\n", approach, byTopic[topic][approach])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	scoreCmd.Flags().StringP("output-dir", "o", "", "Directory containing output JSON files (default: from config)")
	scoreCmd.Flags().Bool("no-chart", false, "Skip writing the HTML chart")
	scoreCmd.Flags().BoolP("force", "f", false, "Ignore the embedding cache and re-embed every reason")
	scoreCmd.Flags().String("save", "", "Write the score summary to this file (default: auto-named in output dir)")
	rootCmd.AddCommand(scoreCmd)
}
