package board

import "fmt"

// Point is the location of a live cell.
type Point struct {
	X int
	Y int
}

// Frame holds the live cells of one recorded time step.
type Frame struct {
	Index int
	Cells []Point
}

// NewFrame creates an empty Frame for the given step.
func NewFrame(index int) Frame {
	return Frame{Index: index, Cells: make([]Point, 0)}
}

// Header is the board description read before the first frame.
type Header struct {
	Width  int
	Height int

	// FrameCount is the declared number of frames, or 0 when the file
	// does not declare one. It is never checked against the frames read.
	FrameCount int
}

// FormatError reports a line that does not follow the board file format.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
