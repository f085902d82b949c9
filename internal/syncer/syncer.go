package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ba0f3/persp/internal/perspective"
	"github.com/ba0f3/persp/internal/store"
)

// DefaultPattern matches generated output files in the outputs dir.
const DefaultPattern = "*.json"

// Summary reports what one sync pass did.
type Summary struct {
	Indexed int
	Updated int
	Removed int
	Skipped int
}

// SyncOutputs scans outputsDir for output JSON files and mirrors them into the
// store: new files are indexed, changed files re-indexed, and store rows whose
// files disappeared are deactivated. Files whose names don't parse or whose
// JSON is invalid are skipped with a warning.
func SyncOutputs(s *store.Store, outputsDir, pattern, model string) (Summary, error) {
	var sum Summary
	if pattern == "" {
		pattern = DefaultPattern
	}

	fsys := os.DirFS(outputsDir)
	files, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return sum, err
	}

	now := time.Now()
	seen := make(map[string]bool)

	for _, relPath := range files {
		filename := filepath.Base(relPath)
		approach, topic, ok := perspective.ParseOutputName(filename)
		if !ok {
			fmt.Fprintf(os.Stderr, "Skipping %s: name is not approach_topic.json\n", filename)
			sum.Skipped++
			continue
		}

		fullPath := filepath.Join(outputsDir, relPath)
		contentBytes, err := os.ReadFile(fullPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", fullPath, err)
			sum.Skipped++
			continue
		}

		var set perspective.Set
		if err := json.Unmarshal(contentBytes, &set); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: invalid perspectives JSON: %v\n", filename, err)
			sum.Skipped++
			continue
		}

		content := string(contentBytes)
		hash := store.HashContent(content)
		seen[perspective.SetName(approach, topic)] = true

		existing, findErr := s.FindOutput(approach, topic)
		if findErr == nil && existing.Hash == hash {
			continue
		}

		if err := s.InsertContent(hash, content, now); err != nil {
			fmt.Fprintf(os.Stderr, "Error inserting content for %s: %v\n", filename, err)
			continue
		}
		id, changed, err := s.UpsertOutput(approach, topic, filename, hash, model, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error upserting output %s: %v\n", filename, err)
			continue
		}
		if changed {
			if err := s.ReplacePerspectives(id, set); err != nil {
				fmt.Fprintf(os.Stderr, "Error indexing perspectives for %s: %v\n", filename, err)
				continue
			}
		}
		if findErr == nil {
			sum.Updated++
		} else {
			sum.Indexed++
		}
	}

	// Deactivate sets whose files disappeared.
	active, err := s.ListOutputs(true)
	if err != nil {
		return sum, err
	}
	for _, o := range active {
		if !seen[o.Name()] {
			if err := s.DeactivateOutput(o.Approach, o.Topic); err != nil {
				fmt.Fprintf(os.Stderr, "Error deactivating %s: %v\n", o.Name(), err)
				continue
			}
			sum.Removed++
		}
	}

	if _, err := s.CleanupOrphanedContent(); err != nil {
		fmt.Fprintf(os.Stderr, "Error cleaning up orphans: %v\n", err)
	}

	return sum, nil
}
