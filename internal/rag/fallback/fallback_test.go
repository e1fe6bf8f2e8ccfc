package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nurra/corpus-api/internal/config"
)

type mockBucket struct {
	downloadFunc func(ctx context.Context, name string) (string, bool, error)
}

func (m *mockBucket) Download(ctx context.Context, name string) (string, bool, error) {
	return m.downloadFunc(ctx, name)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	var asked []string
	bucket := &mockBucket{
		downloadFunc: func(ctx context.Context, name string) (string, bool, error) {
			asked = append(asked, name)
			if name == "second.txt" {
				return "second content", true, nil
			}
			return "", false, nil
		},
	}

	r := NewResolver(bucket, []string{"first.txt", "second.txt", "third.txt"})
	got, ok := r.Resolve(context.Background())
	if !ok || got != "second content" {
		t.Errorf("Resolve got (%q, %v), want second content", got, ok)
	}
	if len(asked) != 2 {
		t.Errorf("Resolve should stop at the first hit, asked %v", asked)
	}
}

func TestResolve_SwallowsErrors(t *testing.T) {
	bucket := &mockBucket{
		downloadFunc: func(ctx context.Context, name string) (string, bool, error) {
			if name == "broken.txt" {
				return "", false, errors.New("bucket offline")
			}
			return "recovered", true, nil
		},
	}

	r := NewResolver(bucket, []string{"broken.txt", "good.txt"})
	got, ok := r.Resolve(context.Background())
	if !ok || got != "recovered" {
		t.Errorf("Resolve got (%q, %v), want recovered after a failing source", got, ok)
	}
}

func TestResolve_ExcerptIsCapped(t *testing.T) {
	long := strings.Repeat("word  and\nmore   ", 1000)
	bucket := &mockBucket{
		downloadFunc: func(ctx context.Context, name string) (string, bool, error) {
			return long, true, nil
		},
	}

	r := NewResolver(bucket, []string{"big.txt"})
	got, ok := r.Resolve(context.Background())
	if !ok {
		t.Fatal("Resolve should hit")
	}
	if n := utf8.RuneCountInString(got); n > config.FallbackExcerptLen {
		t.Errorf("excerpt length %d runes exceeds cap %d", n, config.FallbackExcerptLen)
	}
	if strings.Contains(got, "\n") || strings.Contains(got, "  ") {
		t.Error("excerpt whitespace should be collapsed to single spaces")
	}
}

func TestResolve_ExcerptKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("النص العربي للمصدر الخام ", 500)
	bucket := &mockBucket{
		downloadFunc: func(ctx context.Context, name string) (string, bool, error) {
			return long, true, nil
		},
	}

	r := NewResolver(bucket, []string{"arabic.txt"})
	got, ok := r.Resolve(context.Background())
	if !ok {
		t.Fatal("Resolve should hit")
	}
	if !utf8.ValidString(got) {
		t.Error("excerpt must not end mid-rune")
	}
	if n := utf8.RuneCountInString(got); n != config.FallbackExcerptLen {
		t.Errorf("excerpt got %d runes, want the full cap of %d", n, config.FallbackExcerptLen)
	}
}

func TestResolve_NoBucket(t *testing.T) {
	r := NewResolver(nil, []string{"any.txt"})
	if _, ok := r.Resolve(context.Background()); ok {
		t.Error("Resolve without a bucket must miss")
	}
}
