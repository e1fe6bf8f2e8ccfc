package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/data/redisStore"
	"github.com/nurra/corpus-api/internal/data/store"
)

func TestRawSourceStore_Roundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sourceStore := store.TestRawSourceStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	if err := sourceStore.Put(ctx, "Primary-Corpus.txt", "raw corpus text"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	t.Run("Names match case-insensitively", func(t *testing.T) {
		content, found, err := sourceStore.Download(ctx, "primary-corpus.TXT")
		if err != nil {
			t.Fatalf("Download failed: %v", err)
		}
		if !found || content != "raw corpus text" {
			t.Errorf("Download got (%q, %v)", content, found)
		}
	})

	t.Run("Missing source reports not found without error", func(t *testing.T) {
		_, found, err := sourceStore.Download(ctx, "nothing-here.txt")
		if err != nil {
			t.Fatalf("Download errored on a missing key: %v", err)
		}
		if found {
			t.Error("Expected found=false for a missing source")
		}
	})

	t.Run("Put overwrites existing content", func(t *testing.T) {
		if err := sourceStore.Put(ctx, "primary-corpus.txt", "updated"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		content, found, _ := sourceStore.Download(ctx, "Primary-Corpus.txt")
		if !found || content != "updated" {
			t.Errorf("Download got (%q, %v), want updated", content, found)
		}
	})
}
