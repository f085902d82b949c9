package store

import (
	"database/sql"
	"time"
)

// ScoreRow is one stored diversity score.
type ScoreRow struct {
	Approach string
	Topic    string
	Score    float64
	Reasons  int
	Model    string
	ScoredAt time.Time
}

// UpsertScore stores the diversity score of one output set.
func (s *Store) UpsertScore(approach, topic string, score float64, reasons int, model string, scoredAt time.Time) error {
	_, err := s.DB.Exec(`
		INSERT OR REPLACE INTO scores (approach, topic, score, reasons, model, scored_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, approach, topic, score, reasons, model, scoredAt.Format(time.RFC3339))
	return err
}

// GetScore returns the stored score for one output set; ok is false when the
// set has not been scored.
func (s *Store) GetScore(approach, topic string) (score float64, ok bool, err error) {
	err = s.DB.QueryRow(`SELECT score FROM scores WHERE approach = ? AND topic = ?`, approach, topic).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// ListScores returns all stored scores ordered by topic then approach.
func (s *Store) ListScores() ([]ScoreRow, error) {
	rows, err := s.DB.Query(`
		SELECT approach, topic, score, reasons, model, scored_at
		FROM scores
		ORDER BY topic, approach
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var r ScoreRow
		var scoredAt string
		if err := rows.Scan(&r.Approach, &r.Topic, &r.Score, &r.Reasons, &r.Model, &scoredAt); err != nil {
			return nil, err
		}
		r.ScoredAt, _ = time.Parse(time.RFC3339, scoredAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
