package graybmp

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bodgit/graybmp/bmp"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Entry describes a distinct bitmap recorded in the catalog.
type Entry struct {
	SHA1   string
	Height int
	Width  int
	Mean   float64
	Min    float64
	Max    float64
	Paths  []string
}

// Catalog is a sqlite database of indexed bitmaps. Identical files found at
// several paths share one entry keyed by the SHA-1 of the file contents.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens or creates the catalog stored in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Writers are serialised by sqlite anyway, this avoids "database is
	// locked" errors from the indexing workers
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, height INTEGER NOT NULL, width INTEGER NOT NULL, mean REAL NOT NULL, min REAL NOT NULL, max REAL NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS path (bitmap_id INTEGER NOT NULL, path TEXT NOT NULL UNIQUE, FOREIGN KEY(bitmap_id) REFERENCES bitmap(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records the raster m loaded from path whose file contents hash to sha.
// If path previously held different contents, the old entry is dropped once
// no other path refers to it.
func (c *Catalog) Add(path, sha string, m *bmp.Raster) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := addBitmap(tx, normalize(sha), m)
	if err != nil {
		return err
	}
	if err := addPath(tx, id, path); err != nil {
		return err
	}

	return tx.Commit()
}

func normalize(sha string) string {
	return strings.ToUpper(sha)
}

func addBitmap(tx *sql.Tx, sha string, m *bmp.Raster) (int64, error) {
	mean, min, max := Stats(m)
	if _, err := tx.Exec("INSERT OR IGNORE INTO bitmap (sha1, height, width, mean, min, max) VALUES (?, ?, ?, ?, ?, ?)", sha, m.Height, m.Width, mean, min, max); err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow("SELECT id FROM bitmap WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func addPath(tx *sql.Tx, id int64, path string) error {
	var old int64
	switch err := tx.QueryRow("SELECT bitmap_id FROM path WHERE path = ?", path).Scan(&old); err {
	case sql.ErrNoRows:
	case nil:
	default:
		return err
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO path (bitmap_id, path) VALUES (?, ?)", id, path); err != nil {
		return err
	}

	if old == 0 || old == id {
		return nil
	}

	_, err := tx.Exec("DELETE FROM bitmap WHERE id = ? AND NOT EXISTS (SELECT 1 FROM path WHERE bitmap_id = ?)", old, old)
	return err
}

// Lookup returns the entry for the given SHA-1, or nil if there is none. The
// hash is matched regardless of the case of its hex digits.
func (c *Catalog) Lookup(sha string) (*Entry, error) {
	var id int64
	e := Entry{SHA1: normalize(sha)}
	switch err := c.db.QueryRow("SELECT id, height, width, mean, min, max FROM bitmap WHERE sha1 = ?", e.SHA1).Scan(&id, &e.Height, &e.Width, &e.Mean, &e.Min, &e.Max); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	rows, err := c.db.Query("SELECT path FROM path WHERE bitmap_id = ? ORDER BY path", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		e.Paths = append(e.Paths, path)
	}

	return &e, rows.Err()
}

// Length returns the number of distinct bitmaps in the catalog
func (c *Catalog) Length() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM bitmap").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
