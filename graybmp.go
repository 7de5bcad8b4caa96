/*
Package graybmp loads and saves grayscale rasters as uncompressed 24-bit BMP
files, and maintains a catalog of the bitmaps found under a directory tree.

The format itself is implemented by the bmp subpackage.
*/
package graybmp

import "log"

// GrayBMP indexes bitmaps into a Catalog.
type GrayBMP struct {
	db     *Catalog
	logger *log.Logger
}

// New returns a GrayBMP that records into db and reports skipped files to
// logger.
func New(db *Catalog, logger *log.Logger) *GrayBMP {
	return &GrayBMP{
		db:     db,
		logger: logger,
	}
}
