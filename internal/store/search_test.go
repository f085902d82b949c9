package store

import (
	"testing"

	"github.com/ba0f3/persp/internal/perspective"
)

func TestBuildFTS5Query(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"voter trust", `"voter"* AND "trust"*`},
		{"it's fine", `"it's"* AND "fine"*`},
		{"  spaced   out ", `"spaced"* AND "out"*`},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := BuildFTS5Query(tt.in); got != tt.want {
			t.Errorf("BuildFTS5Query(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchFTS(t *testing.T) {
	s := newTestStore(t)

	insertTestOutput(t, s, "criteria-based", "elections", perspective.Set{
		"1": {Stance: "Mandatory audits", Criteria: []string{"transparency"}, Reason: "Risk-limiting audits verify outcomes."},
		"2": {Stance: "Voter education", Reason: "People trust what they understand."},
	}, `{"elections":1}`)
	insertTestOutput(t, s, "free-form", "littering", perspective.Set{
		"1": {Stance: "More bins", Reason: "Convenient disposal reduces littering."},
	}, `{"littering":1}`)

	results, err := s.SearchFTS("audits", 10, "")
	if err != nil {
		t.Fatalf("SearchFTS: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result for 'audits', got %d", len(results))
	}
	r := results[0]
	if r.Name != "criteria-based_elections" || r.Num != 1 {
		t.Errorf("unexpected hit: %+v", r)
	}
	if r.Score <= 0 || r.Score > 1 {
		t.Errorf("normalized score out of range: %v", r.Score)
	}

	// Topic filter.
	results, err = s.SearchFTS("littering", 10, "elections")
	if err != nil {
		t.Fatalf("SearchFTS with topic filter: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("topic filter should exclude littering hits, got %d", len(results))
	}

	// Deactivated outputs drop out of results.
	if err := s.DeactivateOutput("criteria-based", "elections"); err != nil {
		t.Fatal(err)
	}
	results, _ = s.SearchFTS("audits", 10, "")
	if len(results) != 0 {
		t.Errorf("deactivated output should not match, got %d results", len(results))
	}
}
