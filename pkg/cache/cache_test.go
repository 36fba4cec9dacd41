package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set.
	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Fatalf("Get before Set: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("svg bytes"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || string(data) != "svg bytes" {
		t.Errorf("Get = %q hit=%v, want stored value", data, hit)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("hit after Delete")
	}

	// Deleting an absent key is fine.
	if err := c.Delete(ctx, "never-stored"); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Negative ttl means no expiry... but an already-past expiry is a miss.
	if err := c.Set(ctx, "gone", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "gone"); hit {
		t.Error("expired entry returned a hit")
	}
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("entry without expiry reported a miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("hit after Clear")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set: %v", err)
	}
	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Errorf("Get: hit=%v err=%v, want miss", hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	base, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	a := NewScoped(base, "a:")
	b := NewScoped(base, "b:")

	a.Set(ctx, "key", []byte("from-a"), 0)
	if _, hit, _ := b.Get(ctx, "key"); hit {
		t.Error("scopes are not isolated")
	}
	if data, hit, _ := a.Get(ctx, "key"); !hit || string(data) != "from-a" {
		t.Errorf("Get through scope = %q hit=%v", data, hit)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash is not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs hashed equal")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	k1 := ArtifactKey("bm25 >> qe", ArtifactKeyOpts{Format: "svg"})
	k2 := ArtifactKey("bm25 >> qe", ArtifactKeyOpts{Format: "svg"})
	if k1 != k2 {
		t.Error("ArtifactKey is not deterministic")
	}
	if k1 == ArtifactKey("bm25 >> qe", ArtifactKeyOpts{Format: "png"}) {
		t.Error("different formats share a key")
	}
	if k1 == ArtifactKey("bm25 >> qe", ArtifactKeyOpts{Format: "svg", ComposeAsNode: true}) {
		t.Error("different render options share a key")
	}
}
