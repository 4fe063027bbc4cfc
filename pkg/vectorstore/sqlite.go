// Package vectorstore persists conversation answers in a local SQLite
// collection with in-process brute-force cosine similarity search.
// Embeddings are stored as JSON-encoded float32 arrays, so no native
// extension is required.
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Embedder turns a text into its embedding vector. llm.Client satisfies it.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Entry is one indexed document: the explanation text plus the SQL that
// produced it.
type Entry struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	SQL      string `json:"sql"`
}

// SearchResult is a single semantic search hit.
type SearchResult struct {
	Entry
	Score float64 `json:"score"`
}

type Store struct {
	db         *sql.DB
	collection string
	embedder   Embedder
}

// New opens (or creates) the on-disk store at path. The composite primary
// key makes a duplicate turn id within a collection an insert error rather
// than a silent overwrite.
func New(path, collection string, embedder Embedder) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create vector store directory: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %v", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		owner      TEXT NOT NULL,
		document   TEXT NOT NULL,
		sql_text   TEXT NOT NULL DEFAULT '',
		embedding  TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (collection, id)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vector store schema: %v", err)
	}

	return &Store{
		db:         db,
		collection: collection,
		embedder:   embedder,
	}, nil
}

// Add embeds the document and inserts it under id for the given owner. A
// duplicate id fails: turn identifiers must never repeat within a session.
func (s *Store) Add(ctx context.Context, id, owner, document, sqlText string) error {
	vector, err := s.embedder.CreateEmbedding(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to embed document: %v", err)
	}

	encoded, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %v", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, owner, document, sql_text, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.collection, id, owner, document, sqlText, string(encoded), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to index document %q: %v", id, err)
	}
	return nil
}

// Search embeds the query and returns the k most similar entries belonging
// to owner, best first. Entries indexed by other owners are never scored.
func (s *Store) Search(ctx context.Context, owner, query string, k int) ([]SearchResult, error) {
	queryVector, err := s.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, sql_text, embedding FROM documents WHERE collection = ? AND owner = ?`,
		s.collection, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection: %v", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var entry Entry
		var encoded string
		if err := rows.Scan(&entry.ID, &entry.Document, &entry.SQL, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan document: %v", err)
		}

		var vector []float32
		if err := json.Unmarshal([]byte(encoded), &vector); err != nil {
			continue // skip malformed rows
		}

		results = append(results, SearchResult{
			Entry: entry,
			Score: cosineSimilarity(queryVector, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func cosineSimilarity(a, b []float32) float64 {
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
