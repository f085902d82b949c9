package store

import (
	"database/sql"
	"time"
)

// CachedResponse returns a cached raw model response for a prompt hash.
func (s *Store) CachedResponse(promptHash string) (string, bool, error) {
	var result string
	err := s.DB.QueryRow(`SELECT result FROM llm_cache WHERE hash = ?`, promptHash).Scan(&result)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result, true, nil
}

// CacheResponse stores a raw model response keyed by prompt hash.
func (s *Store) CacheResponse(promptHash, result string, createdAt time.Time) error {
	_, err := s.DB.Exec(`
		INSERT OR REPLACE INTO llm_cache (hash, result, created_at) VALUES (?, ?, ?)
	`, promptHash, result, createdAt.Format(time.RFC3339))
	return err
}

// ClearResponseCache drops all cached model responses.
func (s *Store) ClearResponseCache() (int64, error) {
	res, err := s.DB.Exec(`DELETE FROM llm_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
