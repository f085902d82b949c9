package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ba0f3/persp/internal/config"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show study status and topics",
	Run: func(cmd *cobra.Command, args []string) {
		initRoot()
		s, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		st, err := s.GetStatus()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting status: %v\n", err)
			os.Exit(1)
		}

		var size int64
		if fi, err := os.Stat(st.DBPath); err == nil {
			size = fi.Size()
		}

		fmt.Println("Persp Status")
		fmt.Println()
		fmt.Println("Study:", st.DBPath)
		fmt.Println("Size:", formatBytes(size))
		fmt.Println()
		fmt.Println("Outputs")
		fmt.Printf("  Sets:          %d indexed\n", st.OutputCount)
		fmt.Printf("  Perspectives:  %d\n", st.PerspectiveCount)
		fmt.Printf("  Embeddings:    %d cached\n", st.EmbeddingCount)
		fmt.Printf("  Scores:        %d\n\n", st.ScoreCount)

		cfg, _ := config.LoadConfig()
		fmt.Println("Topics")
		if cfg == nil || len(cfg.Topics) == 0 {
			fmt.Println("  No topics configured. Run 'persp topic add'.")
			return
		}
		byTopic := make(map[string]int)
		lastMod := make(map[string]string)
		for _, t := range st.Topics {
			byTopic[t.Topic] = t.OutputCount
			lastMod[t.Topic] = t.LastModified
		}
		for _, t := range cfg.Topics {
			fmt.Printf("  %s\n", t.ID)
			fmt.Printf("    Question: %s\n", t.Question)
			fmt.Printf("    Sets:     %d", byTopic[t.ID])
			if ago := formatTimeAgo(lastMod[t.ID]); ago != "" {
				fmt.Printf(" (updated %s)", ago)
			}
			fmt.Println()
		}
	},
}

func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	if n < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	if n < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
}

func formatTimeAgo(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	d := time.Since(t)
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
