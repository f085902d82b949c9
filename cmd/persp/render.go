package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/perspective"
	"github.com/spf13/cobra"
)

type methodGroup struct {
	Label   string
	Methods []string
}

func methodGroups(shotFilter string) ([]methodGroup, error) {
	switch shotFilter {
	case "all", "":
		return []methodGroup{
			{"5-shot", []string{"criteria-based", "free-form"}},
			{"1-shot", []string{"1-shot-criteria-based", "1-shot-free-form"}},
		}, nil
	case "5-shot":
		return []methodGroup{{"5-shot", []string{"criteria-based", "free-form"}}}, nil
	case "1-shot":
		return []methodGroup{{"1-shot", []string{"1-shot-criteria-based", "1-shot-free-form"}}}, nil
	default:
		return nil, fmt.Errorf("unknown shot type %q: use '1-shot', '5-shot', or 'all'", shotFilter)
	}
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render generated perspectives for human review",
	Long: `Print all generated perspective sets as readable text, grouped by topic
and method. Reviewer notes from the study config are shown inline. The
rendered text is also saved next to the outputs.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		shotFilter, _ := cmd.Flags().GetString("shot-type")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		saveFile, _ := cmd.Flags().GetString("save")
		noSave, _ := cmd.Flags().GetBool("no-save")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if outputDir == "" {
			outputDir = cfg.OutputsDir
		}
		if _, err := os.Stat(outputDir); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Output directory %q not found. Run 'persp generate' first.\n", outputDir)
			os.Exit(1)
		}

		groups, err := methodGroups(shotFilter)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		showGroupHeaders := shotFilter == "all" || shotFilter == ""

		header := strings.Repeat("=", 80)
		var lines []string
		lines = append(lines, header)
		if showGroupHeaders {
			lines = append(lines, "GENERATED DIVERSE PERSPECTIVES - COMPARISON OF 5-SHOT vs 1-SHOT")
		} else {
			lines = append(lines, fmt.Sprintf("GENERATED DIVERSE PERSPECTIVES - %s EXAMPLES", strings.ToUpper(shotFilter)))
		}
		lines = append(lines, header)

		if cfg.GlobalNote != "" {
			lines = append(lines, "", "Note: "+cfg.GlobalNote)
		}

		for _, topic := range cfg.Topics {
			lines = append(lines, "\n"+strings.Repeat("#", 80))
			lines = append(lines, "# TOPIC: "+topic.Question)
			lines = append(lines, strings.Repeat("#", 80))

			for _, group := range groups {
				if showGroupHeaders {
					lines = append(lines, "\n"+strings.Repeat("=", 80))
					lines = append(lines, fmt.Sprintf("  %s EXAMPLES", strings.ToUpper(group.Label)))
					lines = append(lines, strings.Repeat("=", 80))
				}

				for _, method := range group.Methods {
					filename := perspective.OutputName(method, topic.ID)
					path := filepath.Join(outputDir, filename)

					data, err := os.ReadFile(path)
					if err != nil {
						lines = append(lines, "\n  Missing: "+filename)
						continue
					}

					lines = append(lines, "\n"+strings.Repeat("-", 80))
					lines = append(lines, "METHOD: "+strings.ToUpper(method))
					if note := config.FindNote(cfg, topic.ID, method); note != "" && note != cfg.GlobalNote {
						lines = append(lines, "NOTE: "+note)
					}
					lines = append(lines, strings.Repeat("-", 80))

					var set perspective.Set
					if err := json.Unmarshal(data, &set); err != nil {
						lines = append(lines, fmt.Sprintf("\n  Invalid JSON in %s: %v", filename, err))
						continue
					}
					lines = append(lines, perspective.FormatSet(set))
				}
			}
		}

		lines = append(lines, "\n"+header)
		lines = append(lines, "END OF RESULTS")
		lines = append(lines, header+"\n")

		text := strings.Join(lines, "\n")
		fmt.Println(text)

		if noSave {
			return
		}
		if saveFile == "" {
			suffix := shotFilter
			if suffix == "" {
				suffix = "all"
			}
			saveFile = filepath.Join(outputDir, fmt.Sprintf("formatted_results_%s.txt", suffix))
		}
		if err := os.MkdirAll(filepath.Dir(saveFile), 0755); err == nil {
			if err := os.WriteFile(saveFile, []byte(text), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving results: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("\nFormatted results saved to %s\n", saveFile)
		}
	},
}

func init() {
	renderCmd.Flags().String("shot-type", "all", "Which results to render: 1-shot, 5-shot, or all")
	renderCmd.Flags().StringP("output-dir", "o", "", "Directory containing output JSON files (default: from config)")
	renderCmd.Flags().String("save", "", "Save rendered text to this file (default: auto-named in output dir)")
	renderCmd.Flags().Bool("no-save", false, "Print only, don't write the rendered file")
	rootCmd.AddCommand(renderCmd)
}
