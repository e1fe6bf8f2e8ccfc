package qdrantDB

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/nurra/corpus-api/internal/adapter/utils"
	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

// Store keeps the corpus in a Qdrant cosine collection, one point per chunk.
type Store struct {
	client     *qdrant.Client
	collection string
	logger     *logger_i.Logger
}

func NewStore(ctx context.Context) (*Store, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := os.Getenv("QDRANT_HOST")
	port, err := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || err != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant client: %w", err)
	}

	store := &Store{client: client, collection: config.CorpusCollectionName, logger: logger}
	if err := store.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure collection %q: %w", store.collection, err)
	}

	go closeOnDone(ctx, store)
	logger.Info("Qdrant store ready", "collection", store.collection)
	return store, nil
}

func closeOnDone(ctx context.Context, s *Store) {
	<-ctx.Done()
	s.logger.Info("Shutting down Qdrant client")
	if err := s.client.Close(); err != nil {
		s.logger.Error("Could not close Qdrant client", "error", err)
	}
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(config.EmbeddingDimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (s *Store) WriteBatch(ctx context.Context, chunks []corpusModels.DocumentChunk) error {
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(utils.GetNewUUID()),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":  chunk.Content,
				"metadata": map[string]any(chunk.Metadata),
			}),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]corpusModels.SearchResult, error) {
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: qdrant.PtrOf(float32(threshold)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}

	var results []corpusModels.SearchResult
	for _, hit := range hits {
		similarity := float64(hit.Score)
		// qdrant's threshold is inclusive; the contract wants strictly above
		if similarity <= threshold {
			continue
		}
		results = append(results, corpusModels.SearchResult{
			ID:         hit.Id.GetUuid(),
			Content:    hit.Payload["content"].GetStringValue(),
			Similarity: similarity,
			Metadata:   payloadMetadata(hit.Payload["metadata"]),
		})
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count: %w", err)
	}
	return int(count), nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(&qdrant.Filter{}),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant clear: %w", err)
	}
	return nil
}

func payloadMetadata(value *qdrant.Value) corpusModels.Metadata {
	fields := value.GetStructValue().GetFields()
	if len(fields) == 0 {
		return nil
	}
	metadata := make(corpusModels.Metadata, len(fields))
	for key, v := range fields {
		metadata[key] = valueToAny(v)
	}
	return metadata
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return int(kind.IntegerValue)
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = valueToAny(item)
		}
		return out
	default:
		return nil
	}
}
