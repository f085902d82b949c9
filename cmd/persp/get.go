package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/perspective"
	"github.com/ba0f3/persp/internal/store"
	"github.com/spf13/cobra"
)

// resolveOutput finds an output set by name ("approach_topic"), filename, or
// docid ("#abc123").
func resolveOutput(s *store.Store, input string) (*store.OutputInfo, error) {
	if strings.HasPrefix(input, "#") {
		o, err := s.FindByDocid(input)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, fmt.Errorf("no output set matches docid %s", input)
		}
		return o, nil
	}
	approach, topic, ok := perspective.ParseOutputName(input)
	if !ok {
		return nil, fmt.Errorf("cannot parse %q: expected approach_topic, a filename, or #docid", input)
	}
	return s.FindOutput(approach, topic)
}

var getCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Show one output set",
	Long:  "Retrieve an output set by name (approach_topic), filename, or docid (#abc123).",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		rawJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		o, err := resolveOutput(s, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not found: %v\n", err)
			os.Exit(1)
		}

		body, err := s.GetOutputBody(o.Approach, o.Topic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading output: %v\n", err)
			os.Exit(1)
		}

		if rawJSON {
			fmt.Println(body)
			return
		}

		set, err := perspective.ExtractJSON(body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing output: %v\n", err)
			os.Exit(1)
		}

		cfg, _ := config.LoadConfig()
		fmt.Printf("%s #%s\n", o.Name(), docid(o.Hash))
		if cfg != nil {
			if t, ok := config.FindTopic(cfg, o.Topic); ok {
				fmt.Println("Question:", t.Question)
			}
			if note := config.FindNote(cfg, o.Topic, o.Approach); note != "" {
				fmt.Println("Note:", note)
			}
		}
		if score, ok, _ := s.GetScore(o.Approach, o.Topic); ok {
			fmt.Printf("Diversity: %.4f\n", score)
		}
		fmt.Print(perspective.FormatSet(set))
	},
}

func init() {
	getCmd.Flags().Bool("json", false, "Print the raw output JSON")
	rootCmd.AddCommand(getCmd)
}
