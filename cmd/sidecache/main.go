// Command sidecache demonstrates the cache-aside read and write paths
// against a bbolt-backed store: cold reads load through the store, warm
// reads are served from the cache, writes invalidate, and capacity
// pressure evicts the least recently used key.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/leonardcser/sidecache/internal/boltstore"
	"github.com/leonardcser/sidecache/internal/cache"
	"github.com/leonardcser/sidecache/internal/cacheaside"
	"github.com/leonardcser/sidecache/internal/logger"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := defaultString(os.Getenv("SIDECACHE_DB"), defaultDBPath())
	capacity := envInt("SIDECACHE_CAPACITY", 2)
	ttl := envDuration("SIDECACHE_TTL", time.Hour)

	_ = os.MkdirAll(filepath.Dir(dbPath), 0o755)

	store, err := boltstore.Open[string](dbPath, boltstore.Options{Bucket: "users"})
	if err != nil {
		logger.Errorf("open store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	c, err := cache.New[string, string](cache.Config{
		Capacity:        capacity,
		DefaultTTL:      ttl,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		logger.Errorf("new cache: %v", err)
		os.Exit(1)
	}
	defer c.Close()

	users, err := cacheaside.New(c, store)
	if err != nil {
		logger.Errorf("new orchestrator: %v", err)
		os.Exit(1)
	}

	logger.Infof("sidecache demo: db=%s capacity=%d ttl=%s", dbPath, capacity, ttl)

	// Seed the authoritative store. Each write invalidates any cached copy.
	for key, name := range map[string]string{"u1": "Alice", "u2": "Bob", "u3": "Carol"} {
		if _, err := users.WriteThrough(ctx, key, name); err != nil {
			logger.Errorf("write %s: %v", key, err)
			os.Exit(1)
		}
	}

	// Cold reads load through the store and warm the cache.
	for _, key := range []string{"u1", "u2"} {
		v, err := users.GetOrLoad(ctx, key)
		if err != nil {
			logger.Errorf("load %s: %v", key, err)
			os.Exit(1)
		}
		logger.Infof("loaded %s=%q (store)", key, v)
	}

	// Warm read: no store call behind this one.
	if v, err := users.GetOrLoad(ctx, "u1"); err == nil {
		logger.Infof("loaded u1=%q (cache)", v)
	}

	// Reading u3 with capacity=2 evicts the LRU key, u2.
	if v, err := users.GetOrLoad(ctx, "u3"); err == nil {
		logger.Infof("loaded u3=%q (store, evicts u2)", v)
	}
	logger.Infof("cached keys (MRU->LRU): %v", c.Keys())

	// Absent keys are reported as typed absence, never cached.
	if _, err := users.GetOrLoad(ctx, "u9"); err != nil {
		logger.Infof("load u9: %v", err)
	}

	s := c.Stats()
	logger.Infof("stats: hits=%d misses=%d evictions=%d expirations=%d ratio=%.2f",
		s.Hits, s.Misses, s.Evictions, s.Expirations, s.HitRatio())

	if ctx.Err() != nil {
		logger.Warnf("interrupted")
	}
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "sidecache", "store.bbolt")
}

func defaultString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func envInt(name string, d int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDuration(name string, d time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
