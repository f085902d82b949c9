package main

import (
	"fmt"
	"os"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "persp",
	Short: "Perspective diversity toolkit",
	Long: `Generate labeled perspectives on social and political topics with an LLM,
review them, and score their semantic diversity with embeddings.`,
}

func getStudyName() string {
	name, _ := rootCmd.PersistentFlags().GetString("study")
	if name == "" {
		return "study"
	}
	return name
}

func getStorePath() (string, error) {
	return store.GetDefaultDBPath(getStudyName())
}

func openStore() (*store.Store, error) {
	path, err := getStorePath()
	if err != nil {
		return nil, err
	}
	return store.NewStore(path)
}

func initRoot() {
	config.CurrentStudyName = getStudyName()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("study", "", "Use named study (default: study)")
}
