package bmp

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaster(t *testing.T) {
	m := NewRaster(2, 3)
	assert.Len(t, m.Pix, 6)

	m.SetValue(1, 2, 0.75)
	assert.Equal(t, 0.75, m.Value(1, 2))
	assert.Equal(t, 0.75, m.Pix[5])
	assert.Equal(t, []float64{0, 0, 0.75}, m.Row(1))

	// Rows alias the buffer
	m.Row(0)[1] = 0.5
	assert.Equal(t, 0.5, m.Value(0, 1))

	dup := m.Clone()
	dup.SetValue(0, 0, 1)
	assert.Equal(t, 0.0, m.Value(0, 0))
	assert.Equal(t, m.Height, dup.Height)
	assert.Equal(t, m.Width, dup.Width)
}

func TestNewRasterNegative(t *testing.T) {
	m := NewRaster(-1, 4)
	assert.Equal(t, 0, m.Height)
	assert.Equal(t, 0, m.Width)
	assert.Empty(t, m.Pix)
}

func TestRelease(t *testing.T) {
	m := NewRaster(4, 4)
	assert.False(t, m.Released())

	m.Release()
	assert.True(t, m.Released())
	assert.Equal(t, 0, m.Height)
	assert.Equal(t, 0, m.Width)

	assert.NotPanics(t, m.Release)
	assert.True(t, m.Released())
}

func TestRasterImage(t *testing.T) {
	m := NewRaster(2, 3)
	copy(m.Pix, []float64{0, 0.5, 1, -1, 2, 0.2})

	var img image.Image = m
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, color.GrayModel, img.ColorModel())
	assert.Equal(t, color.Gray{Y: 128}, img.At(1, 0))
	assert.Equal(t, color.Gray{Y: 0}, img.At(0, 1))
	assert.Equal(t, color.Gray{Y: 255}, img.At(1, 1))
	assert.Equal(t, color.Gray{Y: 51}, img.At(2, 1))
	assert.Equal(t, color.Gray{}, img.At(3, 0))
	assert.Equal(t, color.Gray{}, img.At(-1, 0))
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	src.Set(10, 20, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	src.Set(11, 20, color.NRGBA{0x00, 0x00, 0xff, 0xff})

	m := FromImage(src)
	assert.Equal(t, 1, m.Height)
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 1.0, m.Value(0, 0))
	assert.InDelta(t, 1.0/3, m.Value(0, 1), 1e-12)

	// A gray raster converts back to itself at 8-bit precision
	g := NewRaster(1, 3)
	copy(g.Pix, []float64{0, 100.0 / 255, 1})
	assert.InDeltaSlice(t, g.Pix, FromImage(g).Pix, 1e-12)
}
