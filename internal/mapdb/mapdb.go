// Package mapdb stores the cells of assembled maps in an SQLite database
// so that large map collections can be queried without reparsing them.
//
// Cells are keyed by their distance along a Hilbert curve covering the
// layer, which keeps spatially close cells close on disk.
//
// Note: callers must register the sqlite3 driver
// (import _ "github.com/mattn/go-sqlite3") before using this package.
package mapdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/hilbert"
	"go.uber.org/zap"

	"github.com/Faultbox/tiledmap/pkg/tiled"
)

const schema = `
	CREATE TABLE IF NOT EXISTS maps (
		id INTEGER PRIMARY KEY,
		path TEXT UNIQUE NOT NULL,
		orientation TEXT,
		width INTEGER,
		height INTEGER,
		tile_width INTEGER,
		tile_height INTEGER
	);
	CREATE TABLE IF NOT EXISTS tilesets (
		map_id INTEGER,
		name TEXT,
		source TEXT,
		first_gid INTEGER,
		last_gid INTEGER
	);
	CREATE TABLE IF NOT EXISTS cells (
		map_id INTEGER,
		layer TEXT,
		cell INTEGER,
		x INTEGER,
		y INTEGER,
		gid INTEGER,
		tileset TEXT,
		local_id INTEGER
	);
`

// CellKey returns the Hilbert distance of (x, y) on the smallest
// power-of-two square covering a width x height grid.
func CellKey(x, y, width, height int) (int, error) {
	side := 1
	for side < width || side < height {
		side <<= 1
	}
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return 0, err
	}
	return h.MapInverse(x, y)
}

// Writer appends maps to a database.
type Writer struct {
	db  *sql.DB
	log *zap.Logger
}

// NewWriter opens or creates the database at path. A nil logger discards
// output.
func NewWriter(path string, log *zap.Logger) (*Writer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var err error
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Writer{db: db, log: log}, nil
}

// WriteMap stores m under path. Only non-empty cells of tile layers are
// written. Each path can be stored once.
func (w *Writer) WriteMap(path string, m *tiled.Map) (err error) {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.Exec(
		"INSERT INTO maps (path, orientation, width, height, tile_width, tile_height) VALUES (?, ?, ?, ?, ?, ?)",
		path, string(m.Orientation), m.Width, m.Height, m.TileWidth, m.TileHeight)
	if err != nil {
		return fmt.Errorf("storing map %s: %w", path, err)
	}
	mapID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, ts := range m.Tilesets {
		_, err = tx.Exec("INSERT INTO tilesets (map_id, name, source, first_gid, last_gid) VALUES (?, ?, ?, ?, ?)",
			mapID, ts.Name, ts.Source, ts.FirstGID, ts.LastGID())
		if err != nil {
			return fmt.Errorf("storing tileset %s: %w", ts.Name, err)
		}
	}

	stmt, err := tx.Prepare("INSERT INTO cells (map_id, layer, cell, x, y, gid, tileset, local_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	cells := 0
	for _, l := range m.TileLayers() {
		for i, gid := range l.Tiles {
			if gid.IsEmpty() {
				continue
			}
			x, y := i%l.Width, i/l.Width
			key, err := CellKey(x, y, l.Width, l.Height)
			if err != nil {
				return err
			}
			ref, err := m.Resolve(gid)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(mapID, l.Name, key, x, y, int64(gid), ref.Tileset.Name, ref.LocalID); err != nil {
				return fmt.Errorf("storing cell (%d,%d) of %s: %w", x, y, l.Name, err)
			}
			cells++
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	w.log.Debug("map stored", zap.String("path", path), zap.Int64("id", mapID), zap.Int("cells", cells))
	return nil
}

// Finalize builds the lookup indexes. Call it once after the last
// WriteMap.
func (w *Writer) Finalize() error {
	w.log.Debug("creating cell index")
	_, err := w.db.Exec("CREATE INDEX IF NOT EXISTS cell_index ON cells (map_id, layer, cell)")
	return err
}

func (w *Writer) Close() error {
	return w.db.Close()
}

// Reader queries a database produced by Writer.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader opens the database at path read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare(`SELECT c.gid FROM cells c JOIN maps m ON c.map_id = m.id
		WHERE m.path = ? AND c.layer = ? AND c.x = ? AND c.y = ?`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

// Maps lists the stored map paths.
func (r *Reader) Maps() ([]string, error) {
	rows, err := r.db.Query("SELECT path FROM maps ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ReadCell returns the raw global id at (x, y), or 0 for cells that were
// empty or never stored.
func (r *Reader) ReadCell(mapPath, layer string, x, y int) (tiled.GlobalTileID, error) {
	var gid int64
	if err := r.stmt.QueryRow(mapPath, layer, x, y).Scan(&gid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return tiled.GlobalTileID(gid), nil
}

// VisitCells calls visitor for every stored cell of a layer in Hilbert
// order.
func (r *Reader) VisitCells(mapPath, layer string, visitor func(x, y int, gid tiled.GlobalTileID) error) error {
	rows, err := r.db.Query(`SELECT c.x, c.y, c.gid FROM cells c JOIN maps m ON c.map_id = m.id
		WHERE m.path = ? AND c.layer = ? ORDER BY c.cell`, mapPath, layer)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var x, y int
		var gid int64
		if err := rows.Scan(&x, &y, &gid); err != nil {
			return err
		}
		if err := visitor(x, y, tiled.GlobalTileID(gid)); err != nil {
			return err
		}
	}
	return rows.Err()
}
