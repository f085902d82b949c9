package store

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// SearchResult is one perspective matched by full-text search.
type SearchResult struct {
	Name     string // "approach_topic"
	Approach string
	Topic    string
	Num      int
	Stance   string
	Criteria string
	Reason   string
	Hash     string // output content hash
	Score    float64
	Source   string
}

func SanitizeFTS5Term(term string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9']`)
	return strings.ToLower(reg.ReplaceAllString(term, ""))
}

func BuildFTS5Query(query string) string {
	terms := strings.Fields(query)
	var validTerms []string
	for _, t := range terms {
		sanitized := SanitizeFTS5Term(t)
		if len(sanitized) > 0 {
			validTerms = append(validTerms, fmt.Sprintf(`"%s"*`, sanitized))
		}
	}
	if len(validTerms) == 0 {
		return ""
	}
	return strings.Join(validTerms, " AND ")
}

// SearchFTS runs BM25 full-text search over stances, criteria, and reasons.
// topic restricts matches to one topic when non-empty.
func (s *Store) SearchFTS(query string, limit int, topic string) ([]SearchResult, error) {
	ftsQuery := BuildFTS5Query(query)
	if ftsQuery == "" {
		return []SearchResult{}, nil
	}

	q := `
		SELECT
			o.approach, o.topic, p.num, p.stance, p.criteria, p.reason, o.hash,
			bm25(perspectives_fts, 2.0, 1.0, 1.0) as bm25_score
		FROM perspectives_fts f
		JOIN perspectives p ON p.id = f.rowid
		JOIN outputs o ON o.id = p.output_id AND o.active = 1
		WHERE perspectives_fts MATCH ?`
	args := []interface{}{ftsQuery}
	if topic != "" {
		q += ` AND o.topic = ?`
		args = append(args, topic)
	}
	q += `
		ORDER BY bm25_score ASC
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var bm25Score float64
		if err := rows.Scan(&r.Approach, &r.Topic, &r.Num, &r.Stance, &r.Criteria, &r.Reason, &r.Hash, &bm25Score); err != nil {
			return nil, err
		}
		// Normalize BM25 (negative, lower is better) to 0-1 where higher is better.
		absScore := math.Abs(bm25Score)
		r.Score = 1.0 / (1.0 + math.Exp(-(absScore-5.0)/3.0))
		r.Name = r.Approach + "_" + r.Topic
		r.Source = "fts"
		results = append(results, r)
	}
	return results, rows.Err()
}
