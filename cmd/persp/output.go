package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// SearchOutputRow is one row for search output (all formats).
type SearchOutputRow struct {
	Docid    string
	Name     string
	Num      int
	Stance   string
	Criteria string
	Reason   string
	Score    float64
	Note     string
}

func docid(hash string) string {
	if len(hash) >= 6 {
		return hash[:6]
	}
	return hash
}

func getFormatFlag(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	useJSON, _ := cmd.Flags().GetBool("json")
	useCSV, _ := cmd.Flags().GetBool("csv")
	useMD, _ := cmd.Flags().GetBool("md")
	if useJSON {
		format = "json"
	} else if useCSV {
		format = "csv"
	} else if useMD {
		format = "md"
	}
	return format
}

// WriteSearchOutput writes results in the requested format.
func WriteSearchOutput(rows []SearchOutputRow, format string) {
	switch format {
	case "json":
		out := make([]map[string]interface{}, 0, len(rows))
		for _, r := range rows {
			m := map[string]interface{}{
				"docid":  "#" + r.Docid,
				"set":    r.Name,
				"num":    r.Num,
				"score":  roundScore(r.Score),
				"stance": r.Stance,
				"reason": r.Reason,
			}
			if r.Criteria != "" {
				m["criteria"] = r.Criteria
			}
			if r.Note != "" {
				m["note"] = r.Note
			}
			out = append(out, m)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	case "csv":
		w := csv.NewWriter(os.Stdout)
		_ = w.Write([]string{"docid", "set", "num", "score", "stance", "criteria", "reason", "note"})
		for _, r := range rows {
			_ = w.Write([]string{
				"#" + r.Docid,
				r.Name,
				strconv.Itoa(r.Num),
				strconv.FormatFloat(r.Score, 'f', 4, 64),
				r.Stance,
				r.Criteria,
				r.Reason,
				r.Note,
			})
		}
		w.Flush()
	case "md":
		for _, r := range rows {
			fmt.Println("---")
			fmt.Printf("# %s (perspective %d)\n\n", r.Name, r.Num)
			fmt.Printf("**docid:** `#%s`\n", r.Docid)
			if r.Stance != "" {
				fmt.Printf("**position:** %s\n", r.Stance)
			}
			if r.Criteria != "" {
				fmt.Printf("**criteria:** %s\n", r.Criteria)
			}
			if r.Note != "" {
				fmt.Printf("**note:** %s\n", r.Note)
			}
			fmt.Println()
			fmt.Println(r.Reason)
			fmt.Println()
		}
	default:
		for _, r := range rows {
			fmt.Printf("%s [%d] #%s\n", r.Name, r.Num, r.Docid)
			if r.Stance != "" {
				fmt.Println("Position:", r.Stance)
			}
			if r.Criteria != "" {
				fmt.Println("Criteria:", r.Criteria)
			}
			if r.Note != "" {
				fmt.Println("Note:", r.Note)
			}
			fmt.Printf("Score: %.0f%%\n\n", r.Score*100)
			fmt.Println(r.Reason)
			fmt.Println()
		}
	}
}

func roundScore(s float64) float64 {
	return float64(int(s*100+0.5)) / 100
}

func truncateSnippet(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
