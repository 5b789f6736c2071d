package render

import (
	"fmt"
	"image"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/lifereel/board"
)

// A FrameSource yields the header and then frames until io.EOF.
type FrameSource interface {
	Header() board.Header
	Next() (board.Frame, error)
}

// Progress is told about each frame consumed. It never affects the output.
type Progress interface {
	Start(total int)
	Advance(frame int)
	Finish(frames int)
}

// MaxFrameSize bounds each side of a rendered frame in pixels.
const MaxFrameSize = 16384

// WriterFunc opens the video sink once the frame size is known.
type WriterFunc func(size image.Point) (FrameWriter, error)

// Options are the drawing settings of a Renderer.
type Options struct {
	Canvas     CanvasOptions
	Foreground colorful.Color
	Aged       colorful.Color
	AgeFrames  int
}

// Renderer turns a FrameSource into video frames, one frame at a time.
type Renderer struct {
	opts      Options
	newWriter WriterFunc
	progress  Progress
}

// NewRenderer creates a Renderer. progress may be nil.
func NewRenderer(opts Options, newWriter WriterFunc, progress Progress) *Renderer {
	r := new(Renderer)
	r.opts = opts
	r.newWriter = newWriter
	r.progress = progress
	if r.progress == nil {
		r.progress = nopProgress{}
	}
	return r
}

// Render draws every frame of src and writes it to a new sink. The sink
// is closed on every return path.
func (r *Renderer) Render(src FrameSource) (err error) {
	header := src.Header()
	if err := checkFrameSize(header.Width, header.Height, r.opts.Canvas); err != nil {
		return err
	}

	canvasOpts := r.opts.Canvas
	canvasOpts.Shader = NewShader(r.opts.Foreground, r.opts.Aged, r.opts.AgeFrames)
	canvas := NewCanvas(header.Width, header.Height, canvasOpts)

	w, err := r.newWriter(canvas.Size())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	r.progress.Start(header.FrameCount)
	count := 0
	for {
		frame, nextErr := src.Next()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			return nextErr
		}

		if err := w.WriteFrame(canvas.Draw(frame)); err != nil {
			return fmt.Errorf("frame %d: %w", frame.Index, err)
		}
		count++
		r.progress.Advance(count)
	}
	r.progress.Finish(count)

	return nil
}

func checkFrameSize(cols, rows int, opts CanvasOptions) error {
	if opts.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", opts.CellSize)
	}
	if cols > MaxFrameSize/opts.CellSize || rows > MaxFrameSize/opts.CellSize {
		return fmt.Errorf("board %dx%d at %dpx per cell exceeds the %dpx frame limit",
			cols, rows, opts.CellSize, MaxFrameSize)
	}
	if opts.Width > MaxFrameSize || opts.Height > MaxFrameSize {
		return fmt.Errorf("video size %dx%d exceeds the %dpx frame limit",
			opts.Width, opts.Height, MaxFrameSize)
	}
	return nil
}

type nopProgress struct{}

func (nopProgress) Start(int)   {}
func (nopProgress) Advance(int) {}
func (nopProgress) Finish(int)  {}
