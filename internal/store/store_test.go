package store

import (
	"os"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "persp-test-*.sqlite")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	s, err := NewStore(tmpFile.Name())
	if err != nil {
		if strings.Contains(err.Error(), "no such module: fts5") {
			t.Skip("sqlite3 built without FTS5")
		}
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"content", "outputs", "perspectives", "llm_cache", "embeddings", "scores", "perspectives_fts"}
	for _, table := range tables {
		var name string
		err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

func TestGetStatus(t *testing.T) {
	s := newTestStore(t)

	st, err := s.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if st.OutputCount != 0 || st.PerspectiveCount != 0 {
		t.Errorf("empty store should have zero counts, got %+v", st)
	}
}
