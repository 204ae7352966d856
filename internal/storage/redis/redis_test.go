package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func getTestURL(t *testing.T) string {
	t.Helper()
	u := os.Getenv("TEST_REDIS_URL")
	if u == "" {
		t.Skip("TEST_REDIS_URL not set; skipping Redis store tests")
	}
	return u
}

func TestStore_GetSet(t *testing.T) {
	url := getTestURL(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	// isolate the run from other data in the same database
	s.prefix = "cuaderno-test-" + uuid.NewString() + ":"

	v, err := s.Get(ctx, "cuentas")
	if err != nil {
		t.Fatalf("get absent: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil for absent key, got %q", v)
	}
	if err := s.Set(ctx, "cuentas", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err = s.Get(ctx, "cuentas")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != `[{"id":"a"}]` {
		t.Fatalf("unexpected value %q", v)
	}
	_ = s.rdb.Del(ctx, s.prefix+"cuentas").Err()
}
