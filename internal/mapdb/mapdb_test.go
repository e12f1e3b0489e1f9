package mapdb

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tiledmap/pkg/tiled"
	"github.com/Faultbox/tiledmap/pkg/xmltree"
)

const testMap = `<map orientation="orthogonal" width="4" height="3" tilewidth="16" tileheight="16">
 <tileset firstgid="1" name="ground" tilewidth="16" tileheight="16" tilecount="8"/>
 <tileset firstgid="9" name="walls" tilewidth="16" tileheight="16" tilecount="8"/>
 <layer name="floor" width="4" height="3">
  <data encoding="csv">1,2,0,0,
0,9,0,2147483651,
0,0,0,16</data>
 </layer>
</map>`

func assembleTestMap(t *testing.T) *tiled.Map {
	t.Helper()
	root, err := xmltree.ParseBytes([]byte(testMap))
	require.NoError(t, err)
	m, err := tiled.Assemble(root, tiled.Options{})
	require.NoError(t, err)
	return m
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestCellKeyIsHilbertOrder(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8} {
		seen := make(map[int][2]int)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				key, err := CellKey(x, y, size, size)
				require.NoError(t, err)
				require.GreaterOrEqual(t, key, 0)
				require.Less(t, key, size*size)
				_, dup := seen[key]
				require.Falsef(t, dup, "key %d assigned twice", key)
				seen[key] = [2]int{x, y}
			}
		}
		// Consecutive keys are neighbouring cells.
		for k := 1; k < size*size; k++ {
			a, b := seen[k-1], seen[k]
			require.Equalf(t, 1, abs(a[0]-b[0])+abs(a[1]-b[1]), "keys %d and %d not adjacent", k-1, k)
		}
	}
}

func TestCellKeyNonSquare(t *testing.T) {
	// A 5x3 grid is covered by an 8x8 curve.
	key, err := CellKey(4, 2, 5, 3)
	require.NoError(t, err)
	require.Less(t, key, 64)

	_, err = CellKey(8, 0, 5, 3)
	require.Error(t, err)
}

func TestWriteAndRead(t *testing.T) {
	m := assembleTestMap(t)
	path := filepath.Join(t.TempDir(), "maps.db")

	w, err := NewWriter(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteMap("levels/one.tmx", m))
	require.Error(t, w.WriteMap("levels/one.tmx", m), "duplicate path must be rejected")
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	maps, err := r.Maps()
	require.NoError(t, err)
	require.Equal(t, []string{"levels/one.tmx"}, maps)

	tests := []struct {
		x, y int
		want tiled.GlobalTileID
	}{
		{0, 0, 1},
		{1, 0, 2},
		{2, 0, 0},
		{1, 1, 9},
		{3, 1, 3 | tiled.FlipHorizontal},
		{3, 2, 16},
	}
	for _, tc := range tests {
		got, err := r.ReadCell("levels/one.tmx", "floor", tc.x, tc.y)
		require.NoError(t, err)
		require.Equalf(t, tc.want, got, "cell (%d,%d)", tc.x, tc.y)
	}

	got, err := r.ReadCell("levels/other.tmx", "floor", 0, 0)
	require.NoError(t, err)
	require.Equal(t, tiled.GlobalTileID(0), got)

	var keys []int
	count := 0
	err = r.VisitCells("levels/one.tmx", "floor", func(x, y int, gid tiled.GlobalTileID) error {
		key, err := CellKey(x, y, 4, 3)
		require.NoError(t, err)
		keys = append(keys, key)
		require.False(t, gid.IsEmpty())
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, count)
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1], keys[i])
	}
}

func TestAppendToExistingDatabase(t *testing.T) {
	m := assembleTestMap(t)
	path := filepath.Join(t.TempDir(), "maps.db")

	for _, name := range []string{"a.tmx", "b.tmx"} {
		w, err := NewWriter(path, nil)
		require.NoError(t, err)
		require.NoError(t, w.WriteMap(name, m))
		require.NoError(t, w.Finalize())
		require.NoError(t, w.Close())
	}

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	maps, err := r.Maps()
	require.NoError(t, err)
	require.Equal(t, []string{"a.tmx", "b.tmx"}, maps)
}
