package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage study topics",
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured topics",
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if len(cfg.Topics) == 0 {
			fmt.Println("No topics configured.")
			return
		}
		for _, t := range cfg.Topics {
			fmt.Printf("%-20s %s\n", t.ID, t.Question)
		}
	},
}

var topicAddCmd = &cobra.Command{
	Use:   "add [id] [question...]",
	Short: "Add a topic",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		id := args[0]
		if strings.ContainsAny(id, " \t/") {
			fmt.Fprintln(os.Stderr, "Topic id must not contain spaces or slashes.")
			os.Exit(1)
		}
		question := strings.Join(args[1:], " ")
		if !config.AddTopic(cfg, id, question) {
			fmt.Fprintf(os.Stderr, "Topic %q already exists.\n", id)
			os.Exit(1)
		}
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added topic %s\n", id)
	},
}

var topicRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a topic",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if !config.RemoveTopic(cfg, args[0]) {
			fmt.Fprintf(os.Stderr, "Unknown topic %q.\n", args[0])
			os.Exit(1)
		}
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed topic %s\n", args[0])
	},
}

func init() {
	topicCmd.AddCommand(topicListCmd)
	topicCmd.AddCommand(topicAddCmd)
	topicCmd.AddCommand(topicRmCmd)
	rootCmd.AddCommand(topicCmd)
}
