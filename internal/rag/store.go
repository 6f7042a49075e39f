package rag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
)

// Document is one retrieved passage.
type Document struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Retriever fetches the k most similar passages for a query.
type Retriever interface {
	TopK(ctx context.Context, query string, k int) ([]Document, error)
}

// PGStore is a pgvector-backed document store. Rows live in the
// support_documents table with an embedding column sized to the embedding
// model's dimension.
type PGStore struct {
	db       *sql.DB
	embedder llm.EmbeddingClient
}

func NewPGStore(db *sql.DB, embedder llm.EmbeddingClient) *PGStore {
	return &PGStore{db: db, embedder: embedder}
}

func (s *PGStore) TopK(ctx context.Context, query string, k int) ([]Document, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	if k <= 0 {
		k = 4
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("embedding response was empty")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content,
			source,
			1 - (embedding <=> $1) AS similarity
		FROM support_documents
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(vectors[0]), k)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Content, &d.Source, &d.Score); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Upsert replaces all chunks of each source with the given ones and embeds
// their content in one batch.
func (s *PGStore) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	inputs := make([]string, len(docs))
	sources := make(map[string]struct{})
	for i, d := range docs {
		if d.Source == "" {
			return errors.New("source is required for document")
		}
		inputs[i] = d.Content
		sources[d.Source] = struct{}{}
	}

	vectors, err := s.embedder.Embed(ctx, inputs)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedding count mismatch: got %d for %d documents", len(vectors), len(docs))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for source := range sources {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM support_documents WHERE source = $1`, source); err != nil {
			return fmt.Errorf("delete existing documents: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO support_documents (content, source, embedding)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.Content, d.Source, pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
