package syncer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ba0f3/persp/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "persp-sync-*.sqlite")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	s, err := store.NewStore(tmpFile.Name())
	if err != nil {
		if strings.Contains(err.Error(), "no such module: fts5") {
			t.Skip("sqlite3 built without FTS5")
		}
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeOutput(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSyncOutputs(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()

	writeOutput(t, dir, "criteria-based_elections.json",
		`{"1": {"Stance": "Audits", "Criteria": ["transparency"], "Reason": "Audits build trust."}}`)
	writeOutput(t, dir, "free-form_littering.json",
		`{"1": {"Stance": "More bins", "Reason": "Convenience."}, "2": {"Stance": "Fines", "Reason": "Deterrence."}}`)
	writeOutput(t, dir, "badname.json", `{}`)
	writeOutput(t, dir, "free-form_elections.json", `not json`)

	sum, err := SyncOutputs(s, dir, "", "test-model")
	if err != nil {
		t.Fatalf("SyncOutputs: %v", err)
	}
	if sum.Indexed != 2 || sum.Updated != 0 || sum.Removed != 0 || sum.Skipped != 2 {
		t.Errorf("unexpected summary: %+v", sum)
	}

	o, err := s.FindOutput("free-form", "littering")
	if err != nil {
		t.Fatalf("FindOutput: %v", err)
	}
	rows, _ := s.GetPerspectives(o.ID)
	if len(rows) != 2 {
		t.Errorf("expected 2 perspectives indexed, got %d", len(rows))
	}
	if o.Model != "test-model" {
		t.Errorf("model not recorded: %q", o.Model)
	}

	// Unchanged files are a no-op.
	sum, err = SyncOutputs(s, dir, "", "test-model")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Indexed != 0 || sum.Updated != 0 || sum.Removed != 0 {
		t.Errorf("re-sync of unchanged dir should be a no-op: %+v", sum)
	}

	// Changed file is re-indexed.
	writeOutput(t, dir, "criteria-based_elections.json",
		`{"1": {"Stance": "Paper ballots", "Reason": "Verifiable records."}}`)
	sum, err = SyncOutputs(s, dir, "", "test-model")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Updated != 1 {
		t.Errorf("expected 1 update, got %+v", sum)
	}
	o2, _ := s.FindOutput("criteria-based", "elections")
	rows, _ = s.GetPerspectives(o2.ID)
	if len(rows) != 1 || rows[0].Stance != "Paper ballots" {
		t.Errorf("perspectives not replaced on update: %+v", rows)
	}

	// Removed file deactivates its set.
	if err := os.Remove(filepath.Join(dir, "free-form_littering.json")); err != nil {
		t.Fatal(err)
	}
	sum, err = SyncOutputs(s, dir, "", "test-model")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Removed != 1 {
		t.Errorf("expected 1 removal, got %+v", sum)
	}
	active, _ := s.ListOutputs(true)
	if len(active) != 1 {
		t.Errorf("expected 1 active output, got %d", len(active))
	}
}
