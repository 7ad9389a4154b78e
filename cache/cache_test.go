package cache

import (
	"context"
	"testing"
	"time"

	"github.com/etnz/inflation/config"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	if _, found, _ := s.Get(ctx, "a"); found {
		t.Fatal("Get() found a key never set")
	}
	if err := s.Set(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := s.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if v, found, _ := s.Get(ctx, "a"); !found || string(v) != "1" {
		t.Errorf("Get(a) = %q, %v want %q, true", v, found, "1")
	}

	now = now.Add(2 * time.Minute)
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Error("Get(a) found an expired key")
	}
	if v, found, _ := s.Get(ctx, "b"); !found || string(v) != "2" {
		t.Errorf("Get(b) = %q, %v want %q, true", v, found, "2")
	}
}

func TestNew(t *testing.T) {
	if s := New(config.CacheConfig{Enabled: false, Addr: "localhost:6379"}); s != nil {
		t.Error("New() returned a store for a disabled cache")
	}
	s := New(config.CacheConfig{Enabled: true, Addr: "localhost:6379", DB: 2})
	if s == nil {
		t.Fatal("New() returned no store for an enabled cache")
	}
	defer s.Close()
	if got := s.Client.Options().DB; got != 2 {
		t.Errorf("New().Client.Options().DB = %d, want 2", got)
	}
}
