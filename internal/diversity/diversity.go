package diversity

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths or a zero vector score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 - cosine similarity.
func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}

// MeanPairwiseDistance averages the cosine distance over every unordered pair
// of vectors. Fewer than two vectors score 0.
func MeanPairwiseDistance(vecs [][]float32) float64 {
	if len(vecs) < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			sum += CosineDistance(vecs[i], vecs[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// Result is the diversity score of one output set.
type Result struct {
	Approach string
	Topic    string
	Score    float64
	Reasons  int
}

// GroupByTopic maps topic -> approach -> score.
func GroupByTopic(results []Result) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, r := range results {
		if out[r.Topic] == nil {
			out[r.Topic] = make(map[string]float64)
		}
		out[r.Topic][r.Approach] = r.Score
	}
	return out
}

// OrderTopics filters the preferred topic order down to topics that actually
// have results, then appends any unlisted topics in map-iteration-free order.
func OrderTopics(byTopic map[string]map[string]float64, preferred []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range preferred {
		if _, ok := byTopic[t]; ok {
			out = append(out, t)
			seen[t] = true
		}
	}
	var rest []string
	for t := range byTopic {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	// Stable order for topics missing from the preferred list.
	for i := 0; i < len(rest); i++ {
		for j := i + 1; j < len(rest); j++ {
			if rest[j] < rest[i] {
				rest[i], rest[j] = rest[j], rest[i]
			}
		}
	}
	return append(out, rest...)
}
