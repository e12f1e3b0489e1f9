// Package assets locates map and tileset documents on disk and caches
// parsed external tilesets.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/pkg/tiled"
	"github.com/Faultbox/tiledmap/pkg/xmltree"
)

// Manager resolves external tileset references against the referencing
// map's directory and a list of search paths.
type Manager struct {
	searchPaths []string
	cache       *Cache // nil when caching is disabled
	log         *zap.Logger
	mu          sync.RWMutex
}

// NewManager creates a manager. A nil logger discards output.
func NewManager(cacheTilesets bool, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{log: log}
	if cacheTilesets {
		m.cache = NewCache()
	}
	return m
}

// AddSearchPath adds a directory consulted for tilesets not found next
// to the map. Paths are searched in reverse order (last added = highest
// priority).
func (m *Manager) AddSearchPath(dir string) {
	m.mu.Lock()
	m.searchPaths = append(m.searchPaths, dir)
	m.mu.Unlock()
}

// LoadMap reads, parses and assembles a map file. External tilesets are
// resolved relative to the map's directory.
func (m *Manager) LoadMap(path string) (*tiled.Map, error) {
	root, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, err
	}

	mp, err := tiled.Assemble(root, tiled.Options{
		LoadTileset: m.TilesetLoader(filepath.Dir(path)),
		Logger:      m.log.With(zap.String("map", path)),
	})
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", path, err)
	}

	m.log.Debug("map loaded",
		zap.String("path", path),
		zap.Int("layers", len(mp.Layers)),
		zap.Int("warnings", len(mp.Warnings)))
	return mp, nil
}

// TilesetLoader returns a tiled.TilesetLoader resolving sources relative
// to baseDir.
func (m *Manager) TilesetLoader(baseDir string) tiled.TilesetLoader {
	return func(source string) (*tiled.Tileset, error) {
		return m.LoadTileset(baseDir, source)
	}
}

// LoadTileset locates and parses a tileset document. The returned value
// has FirstGID 1 and may be shared with other callers; it must not be
// modified.
func (m *Manager) LoadTileset(baseDir, source string) (*tiled.Tileset, error) {
	path, err := m.locate(baseDir, source)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if ts, ok := m.cache.Get(path); ok {
			m.log.Debug("tileset cache hit", zap.String("path", path))
			return ts, nil
		}
	}

	root, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tileset %s: %w", source, err)
	}
	ts, notes, err := tiled.ParseTileset(root, 1)
	if err != nil {
		return nil, fmt.Errorf("parsing tileset %s: %w", source, err)
	}
	for _, note := range notes {
		m.log.Warn("tileset parsed with notes", zap.String("path", path), zap.String("note", note))
	}

	if m.cache != nil {
		m.cache.Set(path, ts)
	}
	m.log.Debug("tileset loaded", zap.String("path", path), zap.Uint32("tiles", ts.TileCount))
	return ts, nil
}

// locate finds source next to the map first, then in the search paths.
func (m *Manager) locate(baseDir, source string) (string, error) {
	if filepath.IsAbs(source) {
		return existing(source)
	}

	candidates := []string{filepath.Join(baseDir, source)}
	m.mu.RLock()
	for i := len(m.searchPaths) - 1; i >= 0; i-- {
		candidates = append(candidates, filepath.Join(m.searchPaths[i], source))
	}
	m.mu.RUnlock()

	for _, c := range candidates {
		if path, err := existing(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("tileset not found: %s: %w", source, os.ErrNotExist)
}

func existing(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Stats returns tileset cache statistics. Both are zero when caching is
// disabled.
func (m *Manager) Stats() (hits, misses int) {
	if m.cache == nil {
		return 0, 0
	}
	return m.cache.Stats()
}

// Close drops cached tilesets.
func (m *Manager) Close() {
	if m.cache != nil {
		m.cache.Clear()
	}
}

// Cache holds parsed tilesets keyed by absolute path.
type Cache struct {
	data map[string]*tiled.Tileset
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*tiled.Tileset),
	}
}

// Get retrieves a tileset from cache.
func (c *Cache) Get(key string) (*tiled.Tileset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return ts, ok
}

// Set stores a tileset in cache.
func (c *Cache) Set(key string, ts *tiled.Tileset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = ts
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*tiled.Tileset)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
