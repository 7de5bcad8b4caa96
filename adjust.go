package graybmp

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/bodgit/graybmp/bmp"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/knetic/govaluate"
)

var (
	errLevels     = errors.New("graybmp: levels must be between 1 and 256")
	errNotNumeric = errors.New("graybmp: not a number")
)

func unary(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: expected 1 argument, got %d", name, len(args))
		}
		a, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, errNotNumeric)
		}
		return f(a), nil
	}
}

func binary(name string, f func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, ok1 := args[0].(float64)
		b, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%s: %w", name, errNotNumeric)
		}
		return f(a, b), nil
	}
}

var functions = map[string]govaluate.ExpressionFunction{
	"abs":  unary("abs", math.Abs),
	"sqrt": unary("sqrt", math.Sqrt),
	"min":  binary("min", math.Min),
	"max":  binary("max", math.Max),
	"pow":  binary("pow", math.Pow),
}

// Map returns a new raster where every sample is the result of evaluating
// expression. The expression can refer to the current sample as v, its
// position as row and col, and the raster dimensions as height and width.
// The functions abs, min, max, pow and sqrt are available. Results are not
// clamped; that happens when the raster is saved.
func Map(m *bmp.Raster, expression string) (*bmp.Raster, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, functions)
	if err != nil {
		return nil, err
	}

	dup := bmp.NewRaster(m.Height, m.Width)
	params := map[string]interface{}{
		"height": float64(m.Height),
		"width":  float64(m.Width),
	}

	for y := 0; y < m.Height; y++ {
		params["row"] = float64(y)
		for x := 0; x < m.Width; x++ {
			params["col"] = float64(x)
			params["v"] = m.Value(y, x)

			result, err := expr.Evaluate(params)
			if err != nil {
				return nil, err
			}
			v, ok := result.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: %v at %d,%d", errNotNumeric, result, y, x)
			}
			dup.SetValue(y, x, v)
		}
	}

	return dup, nil
}

// Posterize returns a new raster reduced to at most levels distinct gray
// tones, chosen with a median cut over the tones present in m.
func Posterize(m *bmp.Raster, levels int) (*bmp.Raster, error) {
	if levels < 1 || levels > 256 {
		return nil, errLevels
	}
	if len(m.Pix) == 0 {
		return bmp.NewRaster(m.Height, m.Width), nil
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, levels), m)

	// Cache the mapping from each 8-bit tone to its palette entry
	var tones [256]float64
	for i := range tones {
		g := color.GrayModel.Convert(p.Convert(color.Gray{Y: uint8(i)})).(color.Gray)
		tones[i] = float64(g.Y) / 255
	}

	dup := bmp.NewRaster(m.Height, m.Width)
	for i, v := range m.Pix {
		dup.Pix[i] = tones[bmp.Quantize(v)]
	}

	return dup, nil
}

// Stats returns the mean, minimum and maximum sample of m. An empty raster
// returns zeroes.
func Stats(m *bmp.Raster) (mean, min, max float64) {
	if len(m.Pix) == 0 {
		return 0, 0, 0
	}

	min, max = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, v := range m.Pix {
		sum += v
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	return sum / float64(len(m.Pix)), min, max
}
