package store

import (
	"database/sql"
	"encoding/binary"
	"math"
	"time"

	"github.com/ba0f3/persp/internal/diversity"
)

func float32SliceToBlob(f []float32) []byte {
	b := make([]byte, 4*len(f))
	for i, v := range f {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// BlobToFloat32Slice decodes a BLOB back to a float32 slice.
func BlobToFloat32Slice(b []byte) []float32 {
	n := len(b) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// GetEmbedding returns the cached vector for a reason hash and model.
// ok is false on a cache miss.
func (s *Store) GetEmbedding(reasonHash, model string) (vec []float32, ok bool, err error) {
	var blob []byte
	err = s.DB.QueryRow(`
		SELECT embedding FROM embeddings WHERE reason_hash = ? AND model = ?
	`, reasonHash, model).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return BlobToFloat32Slice(blob), true, nil
}

// PutEmbedding caches one vector.
func (s *Store) PutEmbedding(reasonHash, model string, embedding []float32, embeddedAt time.Time) error {
	_, err := s.DB.Exec(`
		INSERT OR REPLACE INTO embeddings (reason_hash, model, embedding, embedded_at)
		VALUES (?, ?, ?, ?)
	`, reasonHash, model, float32SliceToBlob(embedding), embeddedAt.Format(time.RFC3339))
	return err
}

// ReasonToEmbed is one distinct reason text missing a cached embedding.
type ReasonToEmbed struct {
	Hash   string
	Reason string
	Name   string // first output set carrying the reason
	Num    int
}

// ReasonsNeedingEmbedding returns distinct reasons from active output sets
// that are not yet cached for the given model.
func (s *Store) ReasonsNeedingEmbedding(model string) ([]ReasonToEmbed, error) {
	rows, err := s.DB.Query(`
		SELECT p.reason_hash, MIN(p.reason), MIN(o.approach || '_' || o.topic), MIN(p.num)
		FROM perspectives p
		JOIN outputs o ON o.id = p.output_id AND o.active = 1
		LEFT JOIN embeddings e ON e.reason_hash = p.reason_hash AND e.model = ?
		WHERE e.reason_hash IS NULL
		GROUP BY p.reason_hash
	`, model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReasonToEmbed
	for rows.Next() {
		var r ReasonToEmbed
		if err := rows.Scan(&r.Hash, &r.Reason, &r.Name, &r.Num); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearEmbeddings removes all cached vectors (force re-embed).
func (s *Store) ClearEmbeddings() error {
	_, err := s.DB.Exec(`DELETE FROM embeddings`)
	return err
}

// VecSearchResult is one vector search hit.
type VecSearchResult struct {
	Name     string
	Approach string
	Topic    string
	Num      int
	Stance   string
	Reason   string
	Hash     string
	Score    float64
}

// SearchVectorsBrute does brute-force cosine similarity search over cached
// reason embeddings for one model. Returns results sorted by score descending.
func (s *Store) SearchVectorsBrute(queryEmbedding []float32, model string, limit int) ([]VecSearchResult, error) {
	rows, err := s.DB.Query(`
		SELECT e.embedding, o.approach, o.topic, p.num, p.stance, p.reason, o.hash
		FROM embeddings e
		JOIN perspectives p ON p.reason_hash = e.reason_hash
		JOIN outputs o ON o.id = p.output_id AND o.active = 1
		WHERE e.model = ?
	`, model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []VecSearchResult
	for rows.Next() {
		var r VecSearchResult
		var blob []byte
		if err := rows.Scan(&blob, &r.Approach, &r.Topic, &r.Num, &r.Stance, &r.Reason, &r.Hash); err != nil {
			return nil, err
		}
		r.Name = r.Approach + "_" + r.Topic
		r.Score = diversity.CosineSimilarity(queryEmbedding, BlobToFloat32Slice(blob))
		scored = append(scored, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort descending by score
	for i := 0; i < len(scored); i++ {
		for j := i + 1; j < len(scored); j++ {
			if scored[j].Score > scored[i].Score {
				scored[i], scored[j] = scored[j], scored[i]
			}
		}
	}
	if limit <= 0 || limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit], nil
}
