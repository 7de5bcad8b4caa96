package graybmp

import (
	"crypto/sha1"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/graybmp/bmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	db, err := NewCatalog(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCatalog(t *testing.T) {
	db := newTestCatalog(t)

	m := bmp.NewRaster(1, 2)
	copy(m.Pix, []float64{0.25, 0.75})

	require.NoError(t, db.Add("/b/one.bmp", "ABCD", m))
	require.NoError(t, db.Add("/a/two.bmp", "ABCD", m))
	require.NoError(t, db.Add("/a/two.bmp", "ABCD", m))
	require.NoError(t, db.Add("/c/other.bmp", "EF01", bmp.NewRaster(3, 3)))

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	e, err := db.Lookup("ABCD")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, &Entry{
		SHA1:   "ABCD",
		Height: 1,
		Width:  2,
		Mean:   0.5,
		Min:    0.25,
		Max:    0.75,
		Paths:  []string{"/a/two.bmp", "/b/one.bmp"},
	}, e)

	e, err = db.Lookup("0000")
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestCatalogLookupCase(t *testing.T) {
	db := newTestCatalog(t)

	sha := fmt.Sprintf("%X", sha1.Sum(testBitmap))
	require.NoError(t, db.Add("/x.bmp", sha, bmp.NewRaster(1, 1)))

	// sha1sum prints lowercase hex digits
	e, err := db.Lookup(fmt.Sprintf("%x", sha1.Sum(testBitmap)))
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, sha, e.SHA1)
	assert.Equal(t, []string{"/x.bmp"}, e.Paths)

	// Lowercase keys are stored the same way
	require.NoError(t, db.Add("/y.bmp", strings.ToLower(sha), bmp.NewRaster(1, 1)))

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCatalogMovedPath(t *testing.T) {
	db := newTestCatalog(t)

	// A path that now holds different content moves to the new entry
	require.NoError(t, db.Add("/x.bmp", "AAAA", bmp.NewRaster(1, 1)))
	require.NoError(t, db.Add("/x.bmp", "BBBB", bmp.NewRaster(2, 2)))

	e, err := db.Lookup("AAAA")
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = db.Lookup("BBBB")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, []string{"/x.bmp"}, e.Paths)

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// An entry still referenced elsewhere survives
	require.NoError(t, db.Add("/y.bmp", "BBBB", bmp.NewRaster(2, 2)))
	require.NoError(t, db.Add("/x.bmp", "CCCC", bmp.NewRaster(3, 3)))

	e, err = db.Lookup("BBBB")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, []string{"/y.bmp"}, e.Paths)

	n, err = db.Length()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCatalogReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.db")

	db, err := NewCatalog(file)
	require.NoError(t, err)
	require.NoError(t, db.Add("/x.bmp", "AAAA", bmp.NewRaster(1, 1)))
	require.NoError(t, db.Close())

	db, err = NewCatalog(file)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
