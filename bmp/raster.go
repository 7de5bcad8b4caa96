package bmp

import (
	"image"
	"image/color"
)

// Raster is a grayscale image held as a single row-major buffer of samples
// nominally in the range [0, 1]. Row 0 is the top row of the image.
//
// A Raster also implements image.Image, reporting each sample as an 8-bit
// gray using the same rounding and clamping as Encode.
type Raster struct {
	Height int
	Width  int
	Pix    []float64
}

// NewRaster returns a black raster of the given dimensions.
func NewRaster(height, width int) *Raster {
	if height < 0 || width < 0 {
		height, width = 0, 0
	}
	return &Raster{
		Height: height,
		Width:  width,
		Pix:    make([]float64, height*width),
	}
}

// Value returns the sample at the given row and column
func (m *Raster) Value(row, col int) float64 {
	return m.Pix[row*m.Width+col]
}

// SetValue sets the sample at the given row and column
func (m *Raster) SetValue(row, col int, v float64) {
	m.Pix[row*m.Width+col] = v
}

// Row returns the samples of a single row. The slice aliases the raster.
func (m *Raster) Row(row int) []float64 {
	i := row * m.Width
	return m.Pix[i : i+m.Width : i+m.Width]
}

// Clone returns a deep copy of the raster
func (m *Raster) Clone() *Raster {
	dup := &Raster{
		Height: m.Height,
		Width:  m.Width,
		Pix:    make([]float64, len(m.Pix)),
	}
	copy(dup.Pix, m.Pix)
	return dup
}

// Release drops the sample buffer. The raster must not be used afterwards
// other than to call Released or Release again.
func (m *Raster) Release() {
	m.Pix = nil
	m.Height, m.Width = 0, 0
}

// Released reports whether Release has been called
func (m *Raster) Released() bool {
	return m.Pix == nil
}

func (m *Raster) empty() bool {
	return m == nil || m.Height <= 0 || m.Width <= 0 || len(m.Pix) != m.Height*m.Width
}

// ColorModel implements image.Image
func (m *Raster) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image
func (m *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image
func (m *Raster) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.Bounds()) {
		return color.Gray{}
	}
	return color.Gray{Y: Quantize(m.Value(y, x))}
}

// FromImage converts any image into a raster by averaging the red, green and
// blue channels of each pixel at 8-bit precision, matching Decode.
func FromImage(src image.Image) *Raster {
	b := src.Bounds()
	m := NewRaster(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Row(y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			row[x-b.Min.X] = gray(byte(bl>>8), byte(g>>8), byte(r>>8))
		}
	}
	return m
}

func gray(b, g, r byte) float64 {
	return float64(int(b)+int(g)+int(r)) / (bytesPerPixel * maxSample)
}
