package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [topic] [note...]",
	Short: "Attach reviewer notes to topics",
	Long: `Attach free-text reviewer notes to a topic, to one approach within a
topic, or globally to the whole study. Notes show up in render, search,
and get output. Remove a note by passing --remove instead of text.`,
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		global, _ := cmd.Flags().GetBool("global")
		approach, _ := cmd.Flags().GetString("approach")
		remove, _ := cmd.Flags().GetBool("remove")
		list, _ := cmd.Flags().GetBool("list")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if list {
			notes := config.ListAllNotes(cfg)
			if len(notes) == 0 {
				fmt.Println("No notes configured.")
				return
			}
			for _, n := range notes {
				scope := n.Topic
				if n.Approach != "" {
					scope = n.Topic + "/" + n.Approach
				}
				fmt.Printf("%-40s %s\n", scope, n.Note)
			}
			return
		}

		if global {
			text := strings.Join(args, " ")
			if remove {
				text = ""
			}
			if text == "" && !remove {
				fmt.Fprintln(os.Stderr, "Usage: persp annotate --global <note text>")
				os.Exit(1)
			}
			config.SetGlobalNote(cfg, text)
		} else {
			if len(args) == 0 {
				fmt.Fprintln(os.Stderr, "Usage: persp annotate <topic> <note text> [--approach name]")
				os.Exit(1)
			}
			topic := args[0]
			if remove {
				if !config.RemoveNote(cfg, topic, approach) {
					fmt.Fprintf(os.Stderr, "No note found for %s\n", topic)
					os.Exit(1)
				}
			} else {
				text := strings.Join(args[1:], " ")
				if text == "" {
					fmt.Fprintln(os.Stderr, "Usage: persp annotate <topic> <note text> [--approach name]")
					os.Exit(1)
				}
				if !config.AddNote(cfg, topic, approach, text) {
					fmt.Fprintf(os.Stderr, "Unknown topic %q. Run 'persp topic list'.\n", topic)
					os.Exit(1)
				}
			}
		}

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		if remove {
			fmt.Println("Note removed.")
		} else {
			fmt.Println("Note saved.")
		}
	},
}

func init() {
	annotateCmd.Flags().Bool("global", false, "Set the study-wide note")
	annotateCmd.Flags().StringP("approach", "a", "", "Scope the note to one approach")
	annotateCmd.Flags().Bool("remove", false, "Remove the note instead of setting it")
	annotateCmd.Flags().BoolP("list", "l", false, "List all notes")
	rootCmd.AddCommand(annotateCmd)
}
