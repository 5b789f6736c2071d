package render

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/lifereel/board"
	"golang.org/x/image/draw"
)

// CanvasOptions describes how board cells map to pixels.
type CanvasOptions struct {
	CellSize   int
	Marker     float64
	Width      int
	Height     int
	Background colorful.Color
	Shader     *Shader
}

// Canvas plots frames over the fixed axes [0, width] x [0, height] with
// the origin at the bottom-left. Each cell is drawn as a square marker
// centred on (x+0.5, y+0.5).
type Canvas struct {
	cols       int
	rows       int
	cellSize   float64
	marker     float64
	background *image.Uniform
	shader     *Shader

	plot *image.RGBA
	out  *image.RGBA
}

// NewCanvas creates a Canvas for a board of the given dimensions.
func NewCanvas(cols, rows int, opts CanvasOptions) *Canvas {
	c := new(Canvas)
	c.cols = cols
	c.rows = rows
	c.cellSize = float64(opts.CellSize)
	c.marker = math.Max(1, math.Round(opts.Marker*float64(opts.CellSize)))
	c.background = image.NewUniform(opts.Background.Clamped())
	c.shader = opts.Shader
	if c.shader == nil {
		c.shader = NewShader(colorful.Color{}, colorful.Color{}, 0)
	}

	c.plot = image.NewRGBA(image.Rect(0, 0, even(cols*opts.CellSize), even(rows*opts.CellSize)))
	c.out = c.plot
	if opts.Width > 0 && opts.Height > 0 {
		c.out = image.NewRGBA(image.Rect(0, 0, even(opts.Width), even(opts.Height)))
	}

	return c
}

// Size returns the pixel size of the images returned by Draw.
func (c *Canvas) Size() image.Point {
	return c.out.Bounds().Size()
}

// Draw clears the canvas and plots the cells of f. The returned image is
// reused by the next call.
func (c *Canvas) Draw(f board.Frame) *image.RGBA {
	bounds := c.plot.Bounds()
	draw.Draw(c.plot, bounds, c.background, image.Point{}, draw.Src)

	c.shader.Advance(f)
	half := c.marker / 2
	m := int(c.marker)
	top := float64(c.rows) * c.cellSize
	for _, p := range f.Cells {
		cx := (float64(p.X) + 0.5) * c.cellSize
		cy := top - (float64(p.Y)+0.5)*c.cellSize
		x0 := int(math.Round(cx - half))
		y0 := int(math.Round(cy - half))

		// Cells outside the board are clipped.
		r := image.Rect(x0, y0, x0+m, y0+m).Intersect(bounds)
		if r.Empty() {
			continue
		}
		draw.Draw(c.plot, r, image.NewUniform(c.shader.Colour(p)), image.Point{}, draw.Src)
	}

	if c.out != c.plot {
		draw.NearestNeighbor.Scale(c.out, c.out.Bounds(), c.plot, bounds, draw.Src, nil)
	}

	return c.out
}

// even rounds n up to an even number, as most encoders expect.
func even(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}
