package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ba0f3/persp/internal/perspective"
)

func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func (s *Store) InsertContent(hash, content string, createdAt time.Time) error {
	_, err := s.DB.Exec(`INSERT OR IGNORE INTO content (hash, doc, created_at) VALUES (?, ?, ?)`,
		hash, content, createdAt.Format(time.RFC3339))
	return err
}

// OutputInfo is one indexed output set.
type OutputInfo struct {
	ID         int64
	Approach   string
	Topic      string
	Filename   string
	Hash       string
	Model      string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Active     bool
}

// Name returns the set identity "approach_topic".
func (o OutputInfo) Name() string {
	return perspective.SetName(o.Approach, o.Topic)
}

// UpsertOutput inserts or reactivates the output row for an approach and
// topic. changed reports whether the stored content hash differs (or the row
// is new), which means the perspective rows need replacing.
func (s *Store) UpsertOutput(approach, topic, filename, hash, model string, now time.Time) (id int64, changed bool, err error) {
	row := s.DB.QueryRow(`SELECT id, hash FROM outputs WHERE approach = ? AND topic = ?`, approach, topic)
	var oldHash string
	err = row.Scan(&id, &oldHash)
	if err == sql.ErrNoRows {
		res, err := s.DB.Exec(`
			INSERT INTO outputs (approach, topic, filename, hash, model, created_at, modified_at, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		`, approach, topic, filename, hash, model, now.Format(time.RFC3339), now.Format(time.RFC3339))
		if err != nil {
			return 0, false, err
		}
		id, err = res.LastInsertId()
		return id, true, err
	}
	if err != nil {
		return 0, false, err
	}

	changed = oldHash != hash
	_, err = s.DB.Exec(`
		UPDATE outputs SET filename = ?, hash = ?, model = ?, modified_at = ?, active = 1 WHERE id = ?
	`, filename, hash, model, now.Format(time.RFC3339), id)
	return id, changed, err
}

// ReplacePerspectives rewrites the perspective rows of an output set.
// The FTS index follows via triggers.
func (s *Store) ReplacePerspectives(outputID int64, set perspective.Set) error {
	if _, err := s.DB.Exec(`DELETE FROM perspectives WHERE output_id = ?`, outputID); err != nil {
		return err
	}
	for _, key := range perspective.Keys(set) {
		num, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		p := set[key]
		criteria := ""
		if len(p.Criteria) > 0 {
			data, err := json.Marshal(p.Criteria)
			if err != nil {
				return err
			}
			criteria = string(data)
		}
		_, err = s.DB.Exec(`
			INSERT INTO perspectives (output_id, num, stance, criteria, reason, reason_hash)
			VALUES (?, ?, ?, ?, ?, ?)
		`, outputID, num, p.Stance, criteria, p.Reason, HashContent(p.Reason))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeactivateOutput(approach, topic string) error {
	_, err := s.DB.Exec(`UPDATE outputs SET active = 0 WHERE approach = ? AND topic = ? AND active = 1`,
		approach, topic)
	return err
}

// ListOutputs returns output sets ordered by topic then approach.
// When activeOnly is set, deactivated rows are skipped.
func (s *Store) ListOutputs(activeOnly bool) ([]OutputInfo, error) {
	q := `SELECT id, approach, topic, filename, hash, model, created_at, modified_at, active FROM outputs`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY topic, approach`

	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutputInfo
	for rows.Next() {
		var o OutputInfo
		var active int
		var createdAt, modifiedAt string
		if err := rows.Scan(&o.ID, &o.Approach, &o.Topic, &o.Filename, &o.Hash, &o.Model, &createdAt, &modifiedAt, &active); err != nil {
			return nil, err
		}
		o.Active = active == 1
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		o.ModifiedAt, _ = time.Parse(time.RFC3339, modifiedAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// FindOutput looks up one active output set by approach and topic.
func (s *Store) FindOutput(approach, topic string) (*OutputInfo, error) {
	row := s.DB.QueryRow(`
		SELECT id, approach, topic, filename, hash, model, created_at, modified_at, active
		FROM outputs
		WHERE approach = ? AND topic = ? AND active = 1
	`, approach, topic)

	var o OutputInfo
	var active int
	var createdAt, modifiedAt string
	if err := row.Scan(&o.ID, &o.Approach, &o.Topic, &o.Filename, &o.Hash, &o.Model, &createdAt, &modifiedAt, &active); err != nil {
		return nil, err
	}
	o.Active = active == 1
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	o.ModifiedAt, _ = time.Parse(time.RFC3339, modifiedAt)
	return &o, nil
}

// FindByDocid finds an active output by short docid (content hash prefix).
// Returns nil without error when no row matches.
func (s *Store) FindByDocid(docid string) (*OutputInfo, error) {
	docid = strings.TrimSpace(strings.TrimPrefix(docid, "#"))
	if docid == "" {
		return nil, nil
	}
	row := s.DB.QueryRow(`
		SELECT approach, topic FROM outputs
		WHERE hash LIKE ? AND active = 1
		LIMIT 1
	`, docid+"%")
	var approach, topic string
	if err := row.Scan(&approach, &topic); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s.FindOutput(approach, topic)
}

// GetOutputBody returns the raw output JSON for an active set.
func (s *Store) GetOutputBody(approach, topic string) (string, error) {
	var body string
	err := s.DB.QueryRow(`
		SELECT content.doc
		FROM outputs o
		JOIN content ON content.hash = o.hash
		WHERE o.approach = ? AND o.topic = ? AND o.active = 1
	`, approach, topic).Scan(&body)
	return body, err
}

// PerspectiveRow is one stored perspective.
type PerspectiveRow struct {
	Num        int
	Stance     string
	Criteria   []string
	Reason     string
	ReasonHash string
}

// GetPerspectives returns the perspective rows of an output set in order.
func (s *Store) GetPerspectives(outputID int64) ([]PerspectiveRow, error) {
	rows, err := s.DB.Query(`
		SELECT num, stance, criteria, reason, reason_hash
		FROM perspectives
		WHERE output_id = ?
		ORDER BY num
	`, outputID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PerspectiveRow
	for rows.Next() {
		var p PerspectiveRow
		var criteria string
		if err := rows.Scan(&p.Num, &p.Stance, &criteria, &p.Reason, &p.ReasonHash); err != nil {
			return nil, err
		}
		if criteria != "" {
			_ = json.Unmarshal([]byte(criteria), &p.Criteria)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CleanupOrphanedContent() (int64, error) {
	res, err := s.DB.Exec(`
		DELETE FROM content
		WHERE hash NOT IN (SELECT DISTINCT hash FROM outputs WHERE active = 1)
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
