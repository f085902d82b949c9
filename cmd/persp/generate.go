package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/llm"
	"github.com/ba0f3/persp/internal/perspective"
	"github.com/ba0f3/persp/internal/prompt"
	"github.com/ba0f3/persp/internal/store"
	"github.com/ba0f3/persp/internal/syncer"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate perspective sets with the configured model",
	Long: `Generate 10 labeled perspectives per topic and prompting method.
Responses are cached in the study index, so re-running only hits the API
for prompts that changed. Output files land in the outputs directory and
are indexed afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		shotFilter, _ := cmd.Flags().GetString("shot-type")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		topicFilter, _ := cmd.Flags().GetString("topic")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if outputDir == "" {
			outputDir = cfg.OutputsDir
		}
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
			os.Exit(1)
		}

		shotTypes, err := prompt.ShotTypes(shotFilter)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		topics := cfg.Topics
		if topicFilter != "" {
			t, ok := config.FindTopic(cfg, topicFilter)
			if !ok {
				fmt.Fprintf(os.Stderr, "Unknown topic %q. Run 'persp topic list'.\n", topicFilter)
				os.Exit(1)
			}
			topics = []config.Topic{t}
		}

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		client := llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, cfg.EmbedModel)

		generated := 0
		failed := 0
		for _, shotType := range shotTypes {
			fmt.Printf("\nGenerating with %s examples (model: %s)\n", shotType, cfg.Model)

			methods, err := prompt.Methods(cfg.PromptsDir, shotType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading prompts: %v\n", err)
				os.Exit(1)
			}

			for _, topic := range topics {
				fmt.Printf("\nTopic: %s\n", topic.Question)

				for _, method := range methods {
					fmt.Printf("  Method: %s\n", method.Name)
					userPrompt := method.Build(method.Examples, topic.Question)
					cacheKey := store.HashContent(cfg.Model + "\x00" + userPrompt)

					response := ""
					if !noCache {
						if cached, ok, _ := s.CachedResponse(cacheKey); ok {
							response = cached
							fmt.Println("  Using cached response")
						}
					}
					if response == "" {
						fmt.Println("  Generating perspectives...")
						response, err = client.Generate(prompt.SystemPrompt, userPrompt)
						if err != nil {
							fmt.Fprintf(os.Stderr, "  Error calling API: %v\n", err)
							failed++
							continue
						}
						_ = s.CacheResponse(cacheKey, response, time.Now())
					}

					set, err := perspective.ExtractJSON(response)
					if err != nil {
						fmt.Fprintf(os.Stderr, "  Error extracting JSON: %v\n", err)
						failed++
						continue
					}

					data, err := json.MarshalIndent(set, "", "  ")
					if err != nil {
						fmt.Fprintf(os.Stderr, "  Error marshaling: %v\n", err)
						failed++
						continue
					}
					outPath := filepath.Join(outputDir, perspective.OutputName(method.Name, topic.ID))
					if err := os.WriteFile(outPath, data, 0644); err != nil {
						fmt.Fprintf(os.Stderr, "  Error writing %s: %v\n", outPath, err)
						failed++
						continue
					}
					fmt.Printf("  Saved %s (%d perspectives)\n", outPath, len(set))
					generated++
				}
			}
		}

		sum, err := syncer.SyncOutputs(s, outputDir, "", cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error indexing outputs: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\nDone. Generated %d sets", generated)
		if failed > 0 {
			fmt.Printf(" (%d failed)", failed)
		}
		fmt.Printf(". Indexed %d new, %d updated.\n", sum.Indexed, sum.Updated)
	},
}

func init() {
	generateCmd.Flags().String("shot-type", "all", "Few-shot examples to use: 1-shot, 5-shot, or all")
	generateCmd.Flags().StringP("output-dir", "o", "", "Directory for output JSON files (default: from config)")
	generateCmd.Flags().StringP("topic", "t", "", "Generate for a single topic id")
	generateCmd.Flags().Bool("no-cache", false, "Skip the response cache and always call the API")
	rootCmd.AddCommand(generateCmd)
}
