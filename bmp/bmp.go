/*
Package bmp implements a grayscale decoder and encoder for uncompressed 24-bit
BMP files.

The file is written as a 14 byte file header, a 40 byte BITMAPINFOHEADER and
then the pixel array. Pixels are stored as blue, green and red bytes, rows are
stored bottom-up and each row is padded with zeroes to a multiple of 4 bytes.
All multi-byte fields are little-endian.

Decoding averages the three channels of each pixel into a single sample in
the range [0, 1]. This is a plain average rather than a perceptual luma
weighting. Encoding writes each sample back as three identical channel bytes.
*/
package bmp

import "errors"

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	headerLen     = fileHeaderLen + infoHeaderLen

	bitsPerByte     = 8
	bitsPerPixel    = 24
	bytesPerPixel   = bitsPerPixel / bitsPerByte
	rowAlignment    = 4
	compressionNone = 0
	pixelsPerMetre  = 4000
	maxSample       = 255

	// Largest pixel array that will be allocated when decoding
	maxImageBytes = 1 << 30
)

var magic = [2]byte{'B', 'M'}

var (
	// ErrNotBitmap is returned when the first two bytes are not "BM".
	ErrNotBitmap = errors.New("bmp: not a bitmap")
	// ErrUnsupported is returned for valid bitmaps this package cannot
	// decode, such as compressed, palette or non 24-bit images.
	ErrUnsupported = errors.New("bmp: unsupported variant")
	// ErrMalformed is returned when the headers are inconsistent.
	ErrMalformed = errors.New("bmp: malformed header")
	// ErrNotEnough is returned when the pixel array is truncated.
	ErrNotEnough = errors.New("bmp: not enough image data")
	// ErrEmpty is returned when encoding a raster with no pixels.
	ErrEmpty = errors.New("bmp: empty raster")
)
