package pgvectorDB

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

// Store is a pgvector-backed corpus store. The table layout is one row per
// chunk: (id, content, embedding vector(D), metadata jsonb, created_at,
// updated_at) with an hnsw cosine index.
type Store struct {
	db        *sql.DB
	dimension int
	logger    *logger_i.Logger
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	logger := logger_i.NewLogger("Pgvector")

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db, dimension: int(config.EmbeddingDimension), logger: logger}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	go closeOnDone(ctx, store)
	logger.Info("Pgvector store ready", "table", config.CorpusCollectionName)
	return store, nil
}

func closeOnDone(ctx context.Context, s *Store) {
	<-ctx.Done()
	s.logger.Info("Closing pgvector store")
	if err := s.db.Close(); err != nil {
		s.logger.Error("Error closing pgvector store", "error", err)
	}
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			metadata JSONB DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`, config.CorpusCollectionName, s.dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s USING hnsw (embedding vector_cosine_ops)`,
			config.CorpusCollectionName, config.CorpusCollectionName),
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

func (s *Store) WriteBatch(ctx context.Context, chunks []corpusModels.DocumentChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`INSERT INTO %s (content, embedding, metadata) VALUES ($1, $2, $3)`,
		config.CorpusCollectionName)
	for _, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, stmt, chunk.Content, formatEmbedding(chunk.Embedding), metadata); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]corpusModels.SearchResult, error) {
	query := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE 1 - (embedding <=> $1) > $2
		ORDER BY embedding <=> $1
		LIMIT $3`, config.CorpusCollectionName)

	rows, err := s.db.QueryContext(ctx, query, formatEmbedding(vector), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	defer rows.Close()

	var results []corpusModels.SearchResult
	for rows.Next() {
		var (
			id            int64
			result        corpusModels.SearchResult
			metadataBytes []byte
		)
		if err := rows.Scan(&id, &result.Content, &metadataBytes, &result.Similarity); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		result.ID = strconv.FormatInt(id, 10)
		if len(metadataBytes) > 0 {
			if err := json.Unmarshal(metadataBytes, &result.Metadata); err != nil {
				s.logger.Warn("Dropping unreadable chunk metadata", "id", result.ID, "error", err)
			}
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, config.CorpusCollectionName)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s`, config.CorpusCollectionName)); err != nil {
		return fmt.Errorf("clear corpus: %w", err)
	}
	return nil
}

// formatEmbedding renders a vector in pgvector's text input format.
func formatEmbedding(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
