package bmp

import (
	"bufio"
	"io"
	"math"
)

// Quantize converts a sample into a channel byte. Values are scaled by 255,
// rounded and saturated so anything below 0 becomes 0 and anything above 1
// becomes 255. NaN becomes 0.
func Quantize(v float64) uint8 {
	v = math.Round(v * maxSample)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= maxSample:
		return maxSample
	}
	return uint8(v)
}

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) writeHeaders(c Config) error {
	b, err := c.File.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}

	if b, err = c.Info.MarshalBinary(); err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func (e *encoder) encode(m *Raster) error {
	if err := e.writeHeaders(newConfig(m.Height, m.Width)); err != nil {
		return err
	}

	// Padding bytes stay zero, only the pixels are overwritten per row
	tmp := make([]byte, Stride(bitsPerPixel, m.Width))

	// Write rows bottom-up
	for y := m.Height - 1; y >= 0; y-- {
		for x, v := range m.Row(y) {
			q := Quantize(v)
			tmp[x*bytesPerPixel+0] = q
			tmp[x*bytesPerPixel+1] = q
			tmp[x*bytesPerPixel+2] = q
		}
		if _, err := e.w.Write(tmp); err != nil {
			return err
		}
	}

	return e.w.Flush()
}

// Encode writes the Raster m to w as an uncompressed 24-bit BMP with each
// sample replicated across the blue, green and red channels. Rasters too
// large for Decode to read back are refused with ErrUnsupported.
func Encode(w io.Writer, m *Raster) error {
	if m.empty() {
		return ErrEmpty
	}
	if err := checkSize(m.Height, m.Width); err != nil {
		return err
	}

	e := encoder{w: bufio.NewWriter(w)}

	return e.encode(m)
}
