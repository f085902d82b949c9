package store

import (
	"testing"
	"time"

	"github.com/ba0f3/persp/internal/perspective"
)

func TestBlobRoundTrip(t *testing.T) {
	in := []float32{0.5, -1.25, 3.0, 0}
	out := BlobToFloat32Slice(float32SliceToBlob(in))
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: %v != %v", i, in[i], out[i])
		}
	}
}

func TestEmbeddingCache(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	hash := HashContent("some reason")
	if _, ok, err := s.GetEmbedding(hash, "m1"); err != nil || ok {
		t.Fatalf("empty cache should miss: ok=%v err=%v", ok, err)
	}

	vec := []float32{0.1, 0.2, 0.3}
	if err := s.PutEmbedding(hash, "m1", vec, now); err != nil {
		t.Fatalf("PutEmbedding: %v", err)
	}

	got, ok, err := s.GetEmbedding(hash, "m1")
	if err != nil || !ok {
		t.Fatalf("GetEmbedding: ok=%v err=%v", ok, err)
	}
	if len(got) != 3 || got[1] != 0.2 {
		t.Errorf("cached vector mismatch: %v", got)
	}

	// Cache is per-model.
	if _, ok, _ := s.GetEmbedding(hash, "m2"); ok {
		t.Error("different model should miss the cache")
	}

	if err := s.ClearEmbeddings(); err != nil {
		t.Fatalf("ClearEmbeddings: %v", err)
	}
	if _, ok, _ := s.GetEmbedding(hash, "m1"); ok {
		t.Error("cache should be empty after ClearEmbeddings")
	}
}

func TestReasonsNeedingEmbedding(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	insertTestOutput(t, s, "free-form", "elections", perspective.Set{
		"1": {Reason: "shared reason"},
		"2": {Reason: "unique reason"},
	}, `{"a":1}`)
	// Duplicate reason text in another set dedupes by hash.
	insertTestOutput(t, s, "criteria-based", "elections", perspective.Set{
		"1": {Reason: "shared reason"},
	}, `{"b":2}`)

	missing, err := s.ReasonsNeedingEmbedding("m1")
	if err != nil {
		t.Fatalf("ReasonsNeedingEmbedding: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("expected 2 distinct reasons, got %d", len(missing))
	}

	if err := s.PutEmbedding(HashContent("shared reason"), "m1", []float32{1, 0}, now); err != nil {
		t.Fatal(err)
	}
	missing, _ = s.ReasonsNeedingEmbedding("m1")
	if len(missing) != 1 || missing[0].Reason != "unique reason" {
		t.Errorf("expected only the uncached reason, got %+v", missing)
	}
}

func TestSearchVectorsBrute(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	insertTestOutput(t, s, "free-form", "elections", perspective.Set{
		"1": {Stance: "a", Reason: "reason one"},
		"2": {Stance: "b", Reason: "reason two"},
	}, `{"a":1}`)

	if err := s.PutEmbedding(HashContent("reason one"), "m1", []float32{1, 0}, now); err != nil {
		t.Fatal(err)
	}
	if err := s.PutEmbedding(HashContent("reason two"), "m1", []float32{0, 1}, now); err != nil {
		t.Fatal(err)
	}

	results, err := s.SearchVectorsBrute([]float32{0.9, 0.1}, "m1", 10)
	if err != nil {
		t.Fatalf("SearchVectorsBrute: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Reason != "reason one" {
		t.Errorf("expected 'reason one' ranked first, got %+v", results[0])
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("results not sorted by score: %v <= %v", results[0].Score, results[1].Score)
	}

	limited, _ := s.SearchVectorsBrute([]float32{0.9, 0.1}, "m1", 1)
	if len(limited) != 1 {
		t.Errorf("limit not applied: got %d", len(limited))
	}

	// Wrong model finds nothing.
	none, _ := s.SearchVectorsBrute([]float32{1, 0}, "m2", 10)
	if len(none) != 0 {
		t.Errorf("expected no results for unknown model, got %d", len(none))
	}
}
