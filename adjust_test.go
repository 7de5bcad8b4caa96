package graybmp

import (
	"testing"

	"github.com/bodgit/graybmp/bmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(height, width int) *bmp.Raster {
	m := bmp.NewRaster(height, width)
	for i := range m.Pix {
		m.Pix[i] = float64(i) / float64(len(m.Pix)-1)
	}
	return m
}

func TestMap(t *testing.T) {
	m := gradient(2, 3)

	tables := []struct {
		expression string
		f          func(v float64, row, col int) float64
	}{
		{"1 - v", func(v float64, _, _ int) float64 { return 1 - v }},
		{"v * 2", func(v float64, _, _ int) float64 { return v * 2 }},
		{"col / (width - 1)", func(_ float64, _, col int) float64 { return float64(col) / 2 }},
		{"row == 0 ? 1 : 0", func(_ float64, row, _ int) float64 { return float64(1 - row) }},
		{"min(v, 0.5)", func(v float64, _, _ int) float64 { return minf(v, 0.5) }},
		{"abs(v - 0.5)", func(v float64, _, _ int) float64 { return absf(v - 0.5) }},
		{"pow(v, 2)", func(v float64, _, _ int) float64 { return v * v }},
	}

	for _, table := range tables {
		dup, err := Map(m, table.expression)
		require.NoError(t, err, table.expression)
		require.Equal(t, m.Height, dup.Height)
		require.Equal(t, m.Width, dup.Width)

		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				assert.InDelta(t, table.f(m.Value(y, x), y, x), dup.Value(y, x), 1e-12, table.expression)
			}
		}
	}

	// The source is untouched
	assert.Equal(t, gradient(2, 3), m)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absf(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}

func TestMapErrors(t *testing.T) {
	m := gradient(2, 2)

	for _, expression := range []string{"v +", "unknown * 2", "v > 0.5", "sqrt(v, v)", "abs(v > 0)"} {
		_, err := Map(m, expression)
		assert.Error(t, err, expression)
	}
}

func TestPosterize(t *testing.T) {
	m := gradient(16, 16)

	dup, err := Posterize(m, 4)
	require.NoError(t, err)
	require.Equal(t, m.Height, dup.Height)
	require.Equal(t, m.Width, dup.Width)

	tones := make(map[float64]struct{})
	for _, v := range dup.Pix {
		assert.True(t, v >= 0 && v <= 1)
		tones[v] = struct{}{}
	}
	assert.True(t, len(tones) <= 4, "%d tones", len(tones))
	assert.True(t, len(tones) > 1, "%d tones", len(tones))

	// Dark stays darker than light
	assert.True(t, dup.Pix[0] < dup.Pix[len(dup.Pix)-1])
}

func TestPosterizeFlat(t *testing.T) {
	m := bmp.NewRaster(4, 4)
	for i := range m.Pix {
		m.Pix[i] = 0.4
	}

	dup, err := Posterize(m, 8)
	require.NoError(t, err)
	for _, v := range dup.Pix {
		assert.InDelta(t, 102.0/255, v, 1e-12)
	}
}

func TestPosterizeLevels(t *testing.T) {
	for _, levels := range []int{0, -1, 257} {
		_, err := Posterize(gradient(2, 2), levels)
		assert.Equal(t, errLevels, err)
	}
}

func TestStats(t *testing.T) {
	m := bmp.NewRaster(1, 4)
	copy(m.Pix, []float64{0.25, 1, 0, 0.75})

	mean, min, max := Stats(m)
	assert.Equal(t, 0.5, mean)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)

	mean, min, max = Stats(bmp.NewRaster(0, 0))
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 0.0, max)
}
