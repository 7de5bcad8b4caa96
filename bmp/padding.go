package bmp

import "fmt"

// Padding returns the number of zero bytes that follow each row of width
// pixels at the given bit depth so that the row length is a multiple of 4.
func Padding(bitsPerPixel, width int) int {
	row := width * bitsPerPixel / bitsPerByte
	return (rowAlignment - row%rowAlignment) % rowAlignment
}

// Stride returns the length in bytes of a padded row.
func Stride(bitsPerPixel, width int) int {
	return width*bitsPerPixel/bitsPerByte + Padding(bitsPerPixel, width)
}

// checkSize rejects pixel arrays larger than this package will read or write.
func checkSize(height, width int) error {
	if height > maxImageBytes || width > maxImageBytes || int64(height)*int64(Stride(bitsPerPixel, width)) > maxImageBytes {
		return fmt.Errorf("%w: %dx%d pixels", ErrUnsupported, width, height)
	}
	return nil
}
