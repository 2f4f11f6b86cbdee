// Package cache provides caching for rendered frames and documents.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/statehealth/scatter/internal/axis"
)

// Config contains cache configuration.
type Config struct {
	FrameCacheSizeMB  int
	FrameTTL          time.Duration
	DocumentCacheSize int
}

// Manager manages frame and document caches.
type Manager struct {
	frameCache    *bigcache.BigCache
	documentCache *lru.Cache[string, []byte]
}

// NewManager creates a new cache manager.
func NewManager(cfg Config) (*Manager, error) {
	frameCacheConfig := bigcache.Config{
		Shards:             64,
		LifeWindow:         cfg.FrameTTL,
		CleanWindow:        cfg.FrameTTL / 2,
		MaxEntriesInWindow: 10000,
		MaxEntrySize:       512 * 1024, // a 1000x600 PNG frame
		HardMaxCacheSize:   cfg.FrameCacheSizeMB,
		Verbose:            false,
	}

	frameCache, err := bigcache.New(context.Background(), frameCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame cache: %w", err)
	}

	documentCache, err := lru.New[string, []byte](cfg.DocumentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}

	return &Manager{
		frameCache:    frameCache,
		documentCache: documentCache,
	}, nil
}

// GetFrame retrieves a frame from cache.
func (m *Manager) GetFrame(key string) ([]byte, bool) {
	data, err := m.frameCache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetFrame stores a frame in cache.
func (m *Manager) SetFrame(key string, data []byte) error {
	return m.frameCache.Set(key, data)
}

// GetDocument retrieves a document from cache.
func (m *Manager) GetDocument(key string) ([]byte, bool) {
	return m.documentCache.Get(key)
}

// SetDocument stores a document in cache.
func (m *Manager) SetDocument(key string, data []byte) {
	m.documentCache.Add(key, data)
}

// FrameKey generates a cache key for a chart at rest in state s. tip is
// the visible tooltip text, if any.
func FrameKey(s axis.State, width, height int, tip string) string {
	base := fmt.Sprintf("frame:%dx%d:%s", width, height, s)
	if tip == "" {
		return base
	}

	h := sha256.New()
	h.Write([]byte(base))
	h.Write([]byte(tip))
	return base + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// DocumentKey generates a cache key for a rendered document. source is
// whatever identifies the content, such as a timeline version.
func DocumentKey(kind string, source []byte, width, height int) string {
	h := sha256.New()
	h.Write(source)
	return fmt.Sprintf("%s:%dx%d:%s", kind, width, height, hex.EncodeToString(h.Sum(nil))[:16])
}

// Stats returns cache statistics.
func (m *Manager) Stats() map[string]interface{} {
	fs := m.frameCache.Stats()
	return map[string]interface{}{
		"frame_cache_len":    m.frameCache.Len(),
		"frame_cache_cap":    m.frameCache.Capacity(),
		"frame_cache_hits":   fs.Hits,
		"frame_cache_misses": fs.Misses,
		"document_cache_len": m.documentCache.Len(),
	}
}

// Close closes the cache manager.
func (m *Manager) Close() error {
	return m.frameCache.Close()
}
