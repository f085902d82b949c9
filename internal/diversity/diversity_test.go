package diversity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		if got := CosineSimilarity(tt.a, tt.b); !almostEqual(got, tt.want) {
			t.Errorf("%s: CosineSimilarity = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCosineDistance(t *testing.T) {
	if d := CosineDistance([]float32{1, 0}, []float32{1, 0}); !almostEqual(d, 0) {
		t.Errorf("identical vectors: distance = %v, want 0", d)
	}
	if d := CosineDistance([]float32{1, 0}, []float32{0, 1}); !almostEqual(d, 1) {
		t.Errorf("orthogonal vectors: distance = %v, want 1", d)
	}
	if d := CosineDistance([]float32{1, 0}, []float32{-1, 0}); !almostEqual(d, 2) {
		t.Errorf("opposite vectors: distance = %v, want 2", d)
	}
}

func TestMeanPairwiseDistance(t *testing.T) {
	if s := MeanPairwiseDistance(nil); s != 0 {
		t.Errorf("no vectors should score 0, got %v", s)
	}
	if s := MeanPairwiseDistance([][]float32{{1, 0}}); s != 0 {
		t.Errorf("single vector should score 0, got %v", s)
	}

	same := [][]float32{{1, 0}, {1, 0}, {2, 0}}
	if s := MeanPairwiseDistance(same); !almostEqual(s, 0) {
		t.Errorf("collinear vectors should score 0, got %v", s)
	}

	// Three pairwise-orthogonal vectors: every pair at distance 1.
	ortho := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if s := MeanPairwiseDistance(ortho); !almostEqual(s, 1) {
		t.Errorf("orthogonal vectors should score 1, got %v", s)
	}

	// Mixed: pairs (a,b)=1, (a,c)=0, (b,c)=1 -> mean 2/3.
	mixed := [][]float32{{1, 0}, {0, 1}, {1, 0}}
	if s := MeanPairwiseDistance(mixed); !almostEqual(s, 2.0/3.0) {
		t.Errorf("mixed vectors: score = %v, want 2/3", s)
	}
}

func TestGroupByTopic(t *testing.T) {
	results := []Result{
		{Approach: "criteria-based", Topic: "elections", Score: 0.3},
		{Approach: "free-form", Topic: "elections", Score: 0.2},
		{Approach: "criteria-based", Topic: "littering", Score: 0.4},
	}
	byTopic := GroupByTopic(results)
	if len(byTopic) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(byTopic))
	}
	if byTopic["elections"]["free-form"] != 0.2 {
		t.Errorf("unexpected grouped scores: %v", byTopic)
	}
}

func TestOrderTopics(t *testing.T) {
	byTopic := map[string]map[string]float64{
		"littering": {}, "elections": {}, "zoning": {},
	}
	got := OrderTopics(byTopic, []string{"elections", "littering", "campus_protests"})
	want := []string{"elections", "littering", "zoning"}
	if len(got) != len(want) {
		t.Fatalf("OrderTopics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OrderTopics = %v, want %v", got, want)
		}
	}
}
