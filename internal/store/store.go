package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	DB     *sql.DB
	DBPath string
}

func GetDefaultDBPath(studyName string) (string, error) {
	if path := os.Getenv("PERSP_INDEX_PATH"); path != "" {
		return path, nil
	}
	if studyName == "" {
		studyName = "study"
	}

	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cacheDir = filepath.Join(home, ".cache")
	}

	perspCacheDir := filepath.Join(cacheDir, "persp")
	if err := os.MkdirAll(perspCacheDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(perspCacheDir, fmt.Sprintf("%s.sqlite", studyName)), nil
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDBPath("study")
		if err != nil {
			return nil, err
		}
	}

	// Enable WAL mode via DSN
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{DB: db, DBPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Status holds study index stats for the status command.
type Status struct {
	DBPath           string
	OutputCount      int
	PerspectiveCount int
	EmbeddingCount   int
	ScoreCount       int
	Topics           []TopicStatus
}

// TopicStatus is per-topic stats.
type TopicStatus struct {
	Topic        string
	OutputCount  int
	LastModified string
}

// GetStatus returns index path plus output, perspective, embedding, and score
// counts with a per-topic breakdown.
func (s *Store) GetStatus() (*Status, error) {
	st := &Status{DBPath: s.DBPath}
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM outputs WHERE active = 1`).Scan(&st.OutputCount); err != nil {
		return nil, err
	}
	_ = s.DB.QueryRow(`
		SELECT COUNT(*) FROM perspectives p
		JOIN outputs o ON o.id = p.output_id
		WHERE o.active = 1
	`).Scan(&st.PerspectiveCount)
	_ = s.DB.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&st.EmbeddingCount)
	_ = s.DB.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&st.ScoreCount)

	rows, err := s.DB.Query(`
		SELECT topic, COUNT(*) as cnt, MAX(modified_at) as last_modified
		FROM outputs WHERE active = 1
		GROUP BY topic
		ORDER BY topic
	`)
	if err != nil {
		return st, nil
	}
	defer rows.Close()
	for rows.Next() {
		var t TopicStatus
		var lastMod sql.NullString
		if err := rows.Scan(&t.Topic, &t.OutputCount, &lastMod); err != nil {
			continue
		}
		if lastMod.Valid {
			t.LastModified = lastMod.String
		}
		st.Topics = append(st.Topics, t)
	}
	return st, rows.Err()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS content (
			hash TEXT PRIMARY KEY,
			doc TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			approach TEXT NOT NULL,
			topic TEXT NOT NULL,
			filename TEXT NOT NULL,
			hash TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (hash) REFERENCES content(hash) ON DELETE CASCADE,
			UNIQUE(approach, topic)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_topic ON outputs(topic, active)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_hash ON outputs(hash)`,
		`CREATE TABLE IF NOT EXISTS perspectives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			output_id INTEGER NOT NULL,
			num INTEGER NOT NULL,
			stance TEXT NOT NULL DEFAULT '',
			criteria TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL,
			reason_hash TEXT NOT NULL,
			FOREIGN KEY (output_id) REFERENCES outputs(id) ON DELETE CASCADE,
			UNIQUE(output_id, num)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_perspectives_reason_hash ON perspectives(reason_hash)`,
		`CREATE TABLE IF NOT EXISTS llm_cache (
			hash TEXT PRIMARY KEY,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			reason_hash TEXT NOT NULL,
			model TEXT NOT NULL,
			embedding BLOB NOT NULL,
			embedded_at TEXT NOT NULL,
			PRIMARY KEY (reason_hash, model)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			approach TEXT NOT NULL,
			topic TEXT NOT NULL,
			score REAL NOT NULL,
			reasons INTEGER NOT NULL,
			model TEXT NOT NULL,
			scored_at TEXT NOT NULL,
			PRIMARY KEY (approach, topic)
		)`,
		// FTS5 table over perspective text
		`CREATE VIRTUAL TABLE IF NOT EXISTS perspectives_fts USING fts5(
			stance, criteria, reason,
			tokenize='porter unicode61'
		)`,
		// Triggers
		`CREATE TRIGGER IF NOT EXISTS perspectives_ai AFTER INSERT ON perspectives
		BEGIN
			INSERT INTO perspectives_fts(rowid, stance, criteria, reason)
			VALUES (new.id, new.stance, new.criteria, new.reason);
		END`,
		`CREATE TRIGGER IF NOT EXISTS perspectives_ad AFTER DELETE ON perspectives
		BEGIN
			DELETE FROM perspectives_fts WHERE rowid = old.id;
		END`,
	}

	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("schema init failed: %w (query: %s)", err, query)
		}
	}

	return nil
}
