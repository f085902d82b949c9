package store

import (
	"testing"
	"time"

	"github.com/ba0f3/persp/internal/perspective"
)

func insertTestOutput(t *testing.T, s *Store, approach, topic string, set perspective.Set, raw string) int64 {
	t.Helper()
	now := time.Now()
	hash := HashContent(raw)
	if err := s.InsertContent(hash, raw, now); err != nil {
		t.Fatalf("InsertContent: %v", err)
	}
	id, changed, err := s.UpsertOutput(approach, topic, perspective.OutputName(approach, topic), hash, "test-model", now)
	if err != nil {
		t.Fatalf("UpsertOutput: %v", err)
	}
	if changed {
		if err := s.ReplacePerspectives(id, set); err != nil {
			t.Fatalf("ReplacePerspectives: %v", err)
		}
	}
	return id
}

func TestUpsertOutputAndPerspectives(t *testing.T) {
	s := newTestStore(t)

	set := perspective.Set{
		"1": {Stance: "Audit everything", Criteria: []string{"transparency"}, Reason: "Audits build trust."},
		"2": {Stance: "Paper trails", Reason: "Physical evidence reassures voters."},
	}
	id := insertTestOutput(t, s, "criteria-based", "elections", set, `{"raw":1}`)

	rows, err := s.GetPerspectives(id)
	if err != nil {
		t.Fatalf("GetPerspectives: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 perspectives, got %d", len(rows))
	}
	if rows[0].Num != 1 || rows[0].Stance != "Audit everything" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if len(rows[0].Criteria) != 1 || rows[0].Criteria[0] != "transparency" {
		t.Errorf("criteria not round-tripped: %v", rows[0].Criteria)
	}
	if rows[0].ReasonHash != HashContent("Audits build trust.") {
		t.Error("reason hash mismatch")
	}

	// Same hash again: not changed.
	now := time.Now()
	_, changed, err := s.UpsertOutput("criteria-based", "elections", "criteria-based_elections.json", HashContent(`{"raw":1}`), "test-model", now)
	if err != nil {
		t.Fatalf("UpsertOutput again: %v", err)
	}
	if changed {
		t.Error("unchanged hash should not report changed")
	}

	// New hash: changed, perspectives replaced.
	newRaw := `{"raw":2}`
	if err := s.InsertContent(HashContent(newRaw), newRaw, now); err != nil {
		t.Fatal(err)
	}
	id2, changed, err := s.UpsertOutput("criteria-based", "elections", "criteria-based_elections.json", HashContent(newRaw), "test-model", now)
	if err != nil {
		t.Fatalf("UpsertOutput with new hash: %v", err)
	}
	if !changed || id2 != id {
		t.Errorf("expected changed=true with same id, got changed=%v id=%d (was %d)", changed, id2, id)
	}
	if err := s.ReplacePerspectives(id2, perspective.Set{"1": {Reason: "only one"}}); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.GetPerspectives(id2)
	if len(rows) != 1 || rows[0].Reason != "only one" {
		t.Errorf("perspectives not replaced: %+v", rows)
	}
}

func TestListFindDeactivate(t *testing.T) {
	s := newTestStore(t)

	insertTestOutput(t, s, "free-form", "littering", perspective.Set{"1": {Reason: "bins"}}, `{"a":1}`)
	insertTestOutput(t, s, "criteria-based", "elections", perspective.Set{"1": {Reason: "audits"}}, `{"b":2}`)

	all, err := s.ListOutputs(true)
	if err != nil {
		t.Fatalf("ListOutputs: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(all))
	}
	// Ordered by topic then approach.
	if all[0].Topic != "elections" || all[1].Topic != "littering" {
		t.Errorf("unexpected order: %v, %v", all[0].Name(), all[1].Name())
	}

	o, err := s.FindOutput("free-form", "littering")
	if err != nil {
		t.Fatalf("FindOutput: %v", err)
	}
	if o.Name() != "free-form_littering" {
		t.Errorf("unexpected name: %q", o.Name())
	}

	byID, err := s.FindByDocid("#" + o.Hash[:6])
	if err != nil || byID == nil {
		t.Fatalf("FindByDocid: %v, %v", byID, err)
	}
	if byID.Topic != "littering" {
		t.Errorf("docid lookup found wrong output: %+v", byID)
	}
	if missing, err := s.FindByDocid("ffffff"); err != nil || missing != nil {
		t.Errorf("unknown docid should return nil, got %v, %v", missing, err)
	}

	if err := s.DeactivateOutput("free-form", "littering"); err != nil {
		t.Fatalf("DeactivateOutput: %v", err)
	}
	active, _ := s.ListOutputs(true)
	if len(active) != 1 {
		t.Errorf("expected 1 active output after deactivation, got %d", len(active))
	}

	removed, err := s.CleanupOrphanedContent()
	if err != nil {
		t.Fatalf("CleanupOrphanedContent: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 orphaned content row removed, got %d", removed)
	}
}

func TestGetOutputBody(t *testing.T) {
	s := newTestStore(t)
	raw := `{"1": {"Reason": "r"}}`
	insertTestOutput(t, s, "free-form", "elections", perspective.Set{"1": {Reason: "r"}}, raw)

	body, err := s.GetOutputBody("free-form", "elections")
	if err != nil {
		t.Fatalf("GetOutputBody: %v", err)
	}
	if body != raw {
		t.Errorf("body = %q, want %q", body, raw)
	}
}

func TestResponseCache(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.CachedResponse("abc"); err != nil || ok {
		t.Fatalf("empty cache should miss: ok=%v err=%v", ok, err)
	}
	if err := s.CacheResponse("abc", "raw response", time.Now()); err != nil {
		t.Fatalf("CacheResponse: %v", err)
	}
	got, ok, err := s.CachedResponse("abc")
	if err != nil || !ok || got != "raw response" {
		t.Fatalf("CachedResponse = %q, ok=%v, err=%v", got, ok, err)
	}

	n, err := s.ClearResponseCache()
	if err != nil || n != 1 {
		t.Fatalf("ClearResponseCache = %d, %v", n, err)
	}
}

func TestScores(t *testing.T) {
	s := newTestStore(t)

	if _, ok, _ := s.GetScore("criteria-based", "elections"); ok {
		t.Fatal("score should not exist yet")
	}
	now := time.Now()
	if err := s.UpsertScore("criteria-based", "elections", 0.31, 10, "embed-model", now); err != nil {
		t.Fatalf("UpsertScore: %v", err)
	}
	if err := s.UpsertScore("criteria-based", "elections", 0.42, 10, "embed-model", now); err != nil {
		t.Fatalf("UpsertScore replace: %v", err)
	}
	score, ok, err := s.GetScore("criteria-based", "elections")
	if err != nil || !ok {
		t.Fatalf("GetScore: ok=%v err=%v", ok, err)
	}
	if score != 0.42 {
		t.Errorf("score = %v, want 0.42 (replaced)", score)
	}

	list, err := s.ListScores()
	if err != nil || len(list) != 1 {
		t.Fatalf("ListScores = %v, %v", list, err)
	}
	if list[0].Reasons != 10 || list[0].Model != "embed-model" {
		t.Errorf("unexpected score row: %+v", list[0])
	}
}
