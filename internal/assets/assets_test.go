package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tiledmap/pkg/tiled"
)

const testTileset = `<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="ground" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <image source="ground.png" width="32" height="32"/>
</tileset>`

const testMap = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="2" height="2" tilewidth="16" tileheight="16">
 <tileset firstgid="1" source="ground.tsx"/>
 <tileset firstgid="5" source="ground.tsx"/>
 <layer name="floor" width="2" height="2">
  <data encoding="csv">1,2,5,8</data>
 </layer>
</map>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMapWithExternalTileset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ground.tsx"), testTileset)
	writeFile(t, filepath.Join(dir, "level.tmx"), testMap)

	mgr := NewManager(true, nil)
	defer mgr.Close()

	m, err := mgr.LoadMap(filepath.Join(dir, "level.tmx"))
	require.NoError(t, err)
	require.Len(t, m.Tilesets, 2)

	assert.Equal(t, uint32(1), m.Tilesets[0].FirstGID)
	assert.Equal(t, uint32(5), m.Tilesets[1].FirstGID)
	assert.Equal(t, "ground.tsx", m.Tilesets[1].Source)
	assert.Equal(t, uint32(8), m.MaxGID())

	ref, err := m.Resolve(8)
	require.NoError(t, err)
	assert.Same(t, m.Tilesets[1], ref.Tileset)
	assert.Equal(t, uint32(3), ref.LocalID)

	// Second reference to the same file is served from the cache.
	hits, misses := mgr.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestLoadTilesetSearchPaths(t *testing.T) {
	mapDir := t.TempDir()
	low := t.TempDir()
	high := t.TempDir()
	writeFile(t, filepath.Join(low, "shared", "ground.tsx"), testTileset)
	writeFile(t, filepath.Join(high, "shared", "ground.tsx"),
		`<tileset name="override" tilewidth="16" tileheight="16" tilecount="1"/>`)

	mgr := NewManager(false, nil)
	mgr.AddSearchPath(low)

	ts, err := mgr.LoadTileset(mapDir, "shared/ground.tsx")
	require.NoError(t, err)
	assert.Equal(t, "ground", ts.Name)

	// Later search paths take precedence.
	mgr.AddSearchPath(high)
	ts, err = mgr.LoadTileset(mapDir, "shared/ground.tsx")
	require.NoError(t, err)
	assert.Equal(t, "override", ts.Name)

	// A file next to the map wins over every search path.
	writeFile(t, filepath.Join(mapDir, "shared", "ground.tsx"),
		`<tileset name="local" tilewidth="16" tileheight="16" tilecount="1"/>`)
	ts, err = mgr.LoadTileset(mapDir, "shared/ground.tsx")
	require.NoError(t, err)
	assert.Equal(t, "local", ts.Name)

	hits, misses := mgr.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestLoadTilesetAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.tsx")
	writeFile(t, path, testTileset)

	mgr := NewManager(true, nil)
	ts, err := mgr.LoadTileset(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), ts.TileCount)
}

func TestLoadMapMissingTileset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "level.tmx"), testMap)

	mgr := NewManager(true, nil)
	_, err := mgr.LoadMap(filepath.Join(dir, "level.tmx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tiled.ErrMissingExternalTileset))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMapBadTileset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ground.tsx"), `<tileset name="broken" tilewidth="16"/>`)
	writeFile(t, filepath.Join(dir, "level.tmx"), testMap)

	mgr := NewManager(true, nil)
	_, err := mgr.LoadMap(filepath.Join(dir, "level.tmx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tiled.ErrMissingExternalTileset))
	assert.True(t, errors.Is(err, tiled.ErrMissingAttribute))
}

func TestLoadMapMissingFile(t *testing.T) {
	mgr := NewManager(true, nil)
	_, err := mgr.LoadMap(filepath.Join(t.TempDir(), "nope.tmx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCache(t *testing.T) {
	c := NewCache()
	ts := &tiled.Tileset{Name: "a"}

	_, ok := c.Get("a.tsx")
	assert.False(t, ok)

	c.Set("a.tsx", ts)
	got, ok := c.Get("a.tsx")
	assert.True(t, ok)
	assert.Same(t, ts, got)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.Clear()
	_, ok = c.Get("a.tsx")
	assert.False(t, ok)
	hits, misses = c.Stats()
	assert.Equal(t, 0, hits)
	assert.Equal(t, 1, misses)
}
