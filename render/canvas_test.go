package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/lifereel/board"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

func testCanvas(cols, rows int) *Canvas {
	return NewCanvas(cols, rows, CanvasOptions{
		CellSize:   8,
		Marker:     0.75,
		Background: white,
		Shader:     NewShader(black, black, 0),
	})
}

func isColour(c color.Color, want colorful.Color) bool {
	got, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	return got.DistanceRgb(want) < 0.02
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		opts       CanvasOptions
		want       image.Point
	}{
		{"cell size", 4, 3, CanvasOptions{CellSize: 8, Marker: 1}, image.Pt(32, 24)},
		{"rounded to even", 3, 5, CanvasOptions{CellSize: 3, Marker: 1}, image.Pt(10, 16)},
		{"explicit size", 4, 4, CanvasOptions{CellSize: 8, Marker: 1, Width: 640, Height: 481}, image.Pt(640, 482)},
		{"explicit size needs both", 4, 4, CanvasOptions{CellSize: 8, Marker: 1, Width: 640}, image.Pt(32, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(tt.cols, tt.rows, tt.opts)
			if got := c.Size(); got != tt.want {
				t.Errorf("Size() = %v, want %v", got, tt.want)
			}
			if got := c.Draw(board.NewFrame(0)).Bounds().Size(); got != tt.want {
				t.Errorf("Draw size = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanvasCellCentre(t *testing.T) {
	c := testCanvas(4, 4)
	img := c.Draw(board.Frame{Cells: []board.Point{{X: 1, Y: 1}}})

	// Cell (1, 1) is centred on (1.5, 1.5) in board units, which is pixel
	// (12, 20) once y is flipped: the origin is bottom-left.
	if !isColour(img.At(12, 20), black) {
		t.Errorf("centre of (1,1) = %v, want black", img.At(12, 20))
	}
	// Marker is 6px wide: pixels 9..14 horizontally, 17..22 vertically.
	for _, p := range []image.Point{{9, 17}, {14, 22}} {
		if !isColour(img.At(p.X, p.Y), black) {
			t.Errorf("marker edge %v = %v, want black", p, img.At(p.X, p.Y))
		}
	}
	for _, p := range []image.Point{{8, 20}, {15, 20}, {12, 16}, {12, 23}, {4, 28}} {
		if !isColour(img.At(p.X, p.Y), white) {
			t.Errorf("pixel %v = %v, want background", p, img.At(p.X, p.Y))
		}
	}
}

func TestCanvasOrigin(t *testing.T) {
	c := testCanvas(4, 4)
	img := c.Draw(board.Frame{Cells: []board.Point{{X: 0, Y: 0}}})

	if !isColour(img.At(4, 28), black) {
		t.Errorf("cell (0,0) should be drawn bottom-left, got %v", img.At(4, 28))
	}
	if !isColour(img.At(4, 4), white) {
		t.Errorf("top-left should be background, got %v", img.At(4, 4))
	}
}

func TestCanvasClearsPreviousFrame(t *testing.T) {
	c := testCanvas(4, 4)
	c.Draw(board.Frame{Cells: []board.Point{{X: 0, Y: 0}}})
	img := c.Draw(board.Frame{Index: 1, Cells: []board.Point{{X: 3, Y: 3}}})

	if !isColour(img.At(4, 28), white) {
		t.Errorf("previous frame still visible at (0,0): %v", img.At(4, 28))
	}
	if !isColour(img.At(28, 4), black) {
		t.Errorf("cell (3,3) not drawn: %v", img.At(28, 4))
	}
}

func TestCanvasClipsOutOfRange(t *testing.T) {
	c := testCanvas(2, 2)
	img := c.Draw(board.Frame{Cells: []board.Point{{X: -5, Y: 0}, {X: 9, Y: 9}, {X: 2, Y: 0}}})

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isColour(img.At(x, y), white) {
				t.Fatalf("pixel (%d,%d) = %v, want background only", x, y, img.At(x, y))
			}
		}
	}
}

func TestCanvasScaled(t *testing.T) {
	c := NewCanvas(2, 2, CanvasOptions{
		CellSize:   2,
		Marker:     1,
		Width:      40,
		Height:     40,
		Background: white,
		Shader:     NewShader(black, black, 0),
	})
	img := c.Draw(board.Frame{Cells: []board.Point{{X: 1, Y: 1}}})

	if !isColour(img.At(30, 10), black) {
		t.Errorf("top-right quadrant = %v, want black", img.At(30, 10))
	}
	if !isColour(img.At(10, 30), white) {
		t.Errorf("bottom-left quadrant = %v, want white", img.At(10, 30))
	}
}

func TestShaderAges(t *testing.T) {
	aged := colorful.Color{R: 0, G: 0, B: 1}
	s := NewShader(black, aged, 2)
	p := board.Point{X: 1, Y: 1}
	q := board.Point{X: 2, Y: 2}

	s.Advance(board.Frame{Cells: []board.Point{p, p}})
	if got := s.Colour(p); got.DistanceRgb(black) > 0.02 {
		t.Errorf("new cell colour = %v, want foreground", got.Hex())
	}

	s.Advance(board.Frame{Cells: []board.Point{p, q}})
	mid := s.Colour(p)
	if mid.DistanceRgb(black) < 0.02 || mid.DistanceRgb(aged) < 0.02 {
		t.Errorf("one-frame-old colour = %v, want a blend", mid.Hex())
	}
	if got := s.Colour(q); got.DistanceRgb(black) > 0.02 {
		t.Errorf("newborn colour = %v, want foreground", got.Hex())
	}

	for i := 0; i < 4; i++ {
		s.Advance(board.Frame{Cells: []board.Point{p}})
	}
	if got := s.Colour(p); got.DistanceRgb(aged) > 0.02 {
		t.Errorf("old cell colour = %v, want aged", got.Hex())
	}

	// A gap resets the age.
	s.Advance(board.Frame{})
	s.Advance(board.Frame{Cells: []board.Point{p}})
	if got := s.Colour(p); got.DistanceRgb(black) > 0.02 {
		t.Errorf("reborn cell colour = %v, want foreground", got.Hex())
	}
}

func TestShaderFlat(t *testing.T) {
	fore := colorful.Color{R: 0.5, G: 0.25, B: 0}
	s := NewShader(fore, white, 0)
	p := board.Point{X: 0, Y: 0}
	for i := 0; i < 3; i++ {
		s.Advance(board.Frame{Cells: []board.Point{p}})
		if got := s.Colour(p); got != fore {
			t.Fatalf("Colour = %v, want %v", got, fore)
		}
	}
}

func TestEven(t *testing.T) {
	for in, want := range map[int]int{0: 0, 1: 2, 2: 2, 31: 32} {
		if got := even(in); got != want {
			t.Errorf("even(%d) = %d, want %d", in, got, want)
		}
	}
}
