package bmp

import (
	"fmt"
	"io"
	"io/ioutil"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	config Config
	image  *Raster

	// Enough to hold both headers
	tmp [headerLen]byte
}

func (d *decoder) readHeaders() error {
	n, err := io.ReadFull(d.r, d.tmp[:])

	// Reject anything that is not a bitmap before worrying about its length
	for i := 0; i < n && i < len(magic); i++ {
		if d.tmp[i] != magic[i] {
			return ErrNotBitmap
		}
	}

	if err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			return err
		}
		return fmt.Errorf("%w: headers", ErrNotEnough)
	}

	if err := d.config.File.UnmarshalBinary(d.tmp[:fileHeaderLen]); err != nil {
		return err
	}
	if !d.config.File.IsBitmap() {
		return ErrNotBitmap
	}

	if err := d.config.Info.UnmarshalBinary(d.tmp[fileHeaderLen:]); err != nil {
		return err
	}
	return d.config.Info.Supported()
}

func (d *decoder) skipToPixels() error {
	offset := int64(d.config.File.PixelOffset)
	if offset < headerLen {
		return fmt.Errorf("%w: pixel offset %d", ErrMalformed, offset)
	}
	if offset == headerLen {
		return nil
	}
	if _, err := io.CopyN(ioutil.Discard, d.r, offset-headerLen); err != nil {
		if err != io.EOF {
			return err
		}
		return fmt.Errorf("%w: pixel offset %d", ErrNotEnough, offset)
	}
	return nil
}

func (d *decoder) readPixels() error {
	height, width := d.config.Height(), d.config.Width()
	bpp := int(d.config.Info.BitsPerPixel)
	stride := Stride(bpp, width)
	padding := Padding(bpp, width)

	// BI_RGB bitmaps may leave the image size as zero
	if size := d.config.Info.ImageSize; size != 0 && int64(size) < int64(height)*int64(stride) {
		return fmt.Errorf("%w: image size %d for %dx%d pixels", ErrMalformed, size, width, height)
	}

	if err := checkSize(height, width); err != nil {
		return err
	}

	b := make([]byte, height*stride)
	if err := readFull(d.r, b); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	d.image = NewRaster(height, width)

	// The first stored row is the bottom row of the image
	n := 0
	for y := height - 1; y >= 0; y-- {
		row := d.image.Row(y)
		for x := range row {
			row[x] = gray(b[n], b[n+1], b[n+2])
			n += bytesPerPixel
		}
		n += padding
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeaders(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.skipToPixels(); err != nil {
		return err
	}

	return d.readPixels()
}

// Decode reads a 24-bit BMP image from r and returns it as a grayscale
// Raster.
func Decode(r io.Reader) (*Raster, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the headers of a 24-bit BMP image without decoding the
// pixel array. It fails the same way as Decode for files that are not
// bitmaps or that use an unsupported variant.
func DecodeConfig(r io.Reader) (Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Config{}, err
	}
	return d.config, nil
}
