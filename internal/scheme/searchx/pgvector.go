package searchx

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	logx "github.com/yojana-mitra/server/pkg/logger"
)

// vector(768) matches the text-embedding-004 output dimension.
const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS scheme_embeddings (
    id        text PRIMARY KEY,
    name      text NOT NULL,
    content   text NOT NULL,
    embedding vector(768) NOT NULL
);`

// PgVectorIndex stores scheme embeddings in Postgres and searches them by
// cosine similarity.
type PgVectorIndex struct {
	pool     *pgxpool.Pool
	embedder embedding.Embedder
}

var _ Index = (*PgVectorIndex)(nil)

// NewPgVectorIndex connects to Postgres, ensures the embedding table exists
// and returns an index backed by the given embedder.
func NewPgVectorIndex(ctx context.Context, databaseURL string, embedder embedding.Embedder) (*PgVectorIndex, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure scheme_embeddings table: %w", err)
	}

	logx.Info().Msg("pgvector scheme index ready")
	return &PgVectorIndex{pool: pool, embedder: embedder}, nil
}

// Close releases the connection pool.
func (x *PgVectorIndex) Close() {
	x.pool.Close()
}

// Upsert embeds the documents and writes them, replacing existing rows by id.
func (x *PgVectorIndex) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := x.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	batch := &pgx.Batch{}
	for i, d := range docs {
		batch.Queue(`
			INSERT INTO scheme_embeddings (id, name, content, embedding)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
			d.ID, d.Name, d.Content, toVector(vectors[i]))
	}
	br := x.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert scheme embedding: %w", err)
		}
	}

	logx.Debug().Int("documents", len(docs)).Msg("indexed scheme documents")
	return nil
}

// Search embeds the query and returns the topK nearest documents by cosine
// similarity, best first.
func (x *PgVectorIndex) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 5
	}

	vectors, err := x.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := x.pool.Query(ctx, `
		SELECT id, name, content, 1 - (embedding <=> $1) AS score
		FROM scheme_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2`,
		toVector(vectors[0]), topK)
	if err != nil {
		return nil, fmt.Errorf("query scheme embeddings: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.Name, &h.Content, &h.Score); err != nil {
			return nil, fmt.Errorf("scan scheme hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheme hits: %w", err)
	}
	return hits, nil
}

// Populate indexes the given documents, typically the full catalog at startup.
func (x *PgVectorIndex) Populate(ctx context.Context, docs []Document) error {
	return x.Upsert(ctx, docs)
}

func toVector(v []float64) pgvector.Vector {
	f := make([]float32, len(v))
	for i, x := range v {
		f[i] = float32(x)
	}
	return pgvector.NewVector(f)
}
