package graybmp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/bodgit/graybmp/bmp"
)

// Kind classifies why loading or saving a bitmap failed.
type Kind int

const (
	// KindNone means there was no error
	KindNone Kind = iota
	// KindUnavailable means the file could not be opened or created
	KindUnavailable
	// KindNotBitmap means the file does not start with "BM"
	KindNotBitmap
	// KindUnsupported means the file is a bitmap but not an uncompressed
	// single plane 24-bit bottom-up one
	KindUnsupported
	// KindMalformed means the headers or pixel array are inconsistent or
	// truncated
	KindMalformed
	// KindOther covers any remaining I/O or encoding error
	KindOther
)

var kindNames = [...]string{
	KindNone:        "none",
	KindUnavailable: "unavailable",
	KindNotBitmap:   "not a bitmap",
	KindUnsupported: "unsupported variant",
	KindMalformed:   "malformed",
	KindOther:       "other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error records a failed Load or Save along with the path and kind of
// failure.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of failure err represents. A nil error is
// KindNone.
func KindOf(err error) Kind {
	var e *Error
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &e):
		return e.Kind
	case errors.Is(err, bmp.ErrNotBitmap):
		return KindNotBitmap
	case errors.Is(err, bmp.ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, bmp.ErrMalformed), errors.Is(err, bmp.ErrNotEnough):
		return KindMalformed
	case os.IsNotExist(err), os.IsPermission(err):
		return KindUnavailable
	}
	return KindOther
}

// Load reads the bitmap at path and returns it as a grayscale raster. A nil
// error means the raster was loaded; otherwise no raster is returned and the
// error is an *Error that can be classified with KindOf.
func Load(path string) (*bmp.Raster, error) {
	return load(path, nil)
}

// load is Load but also copies the entire file to w if it is non-nil.
func load(path string, w io.Writer) (*bmp.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{"load", path, KindUnavailable, err}
	}
	defer f.Close()

	var r io.Reader = f
	if w != nil {
		r = io.TeeReader(f, w)
	}

	m, err := bmp.Decode(r)
	if err != nil {
		return nil, &Error{"load", path, KindOf(err), err}
	}

	if w != nil {
		if _, err := io.Copy(ioutil.Discard, r); err != nil {
			return nil, &Error{"load", path, KindOther, err}
		}
	}

	return m, nil
}

// LoadConfig reads only the headers of the bitmap at path.
func LoadConfig(path string) (bmp.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return bmp.Config{}, &Error{"load", path, KindUnavailable, err}
	}
	defer f.Close()

	c, err := bmp.DecodeConfig(f)
	if err != nil {
		return bmp.Config{}, &Error{"load", path, KindOf(err), err}
	}

	return c, nil
}

// Save writes m to path as a 24-bit bitmap, replacing any existing file.
// Samples outside [0, 1] are saturated.
func Save(path string, m *bmp.Raster) error {
	// Encode first so an unusable raster never truncates an existing file
	b := new(bytes.Buffer)
	if err := bmp.Encode(b, m); err != nil {
		return &Error{"save", path, KindOther, err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &Error{"save", path, KindUnavailable, err}
	}
	defer f.Close()

	if _, err = f.Write(b.Bytes()); err != nil {
		return &Error{"save", path, KindOther, err}
	}

	if err = f.Close(); err != nil {
		return &Error{"save", path, KindOther, err}
	}

	return nil
}

// Release frees the samples held by m. It is safe to call with nil.
func Release(m *bmp.Raster) {
	if m != nil {
		m.Release()
	}
}
