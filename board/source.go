package board

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Separator closes the current frame block and opens the next one.
const Separator = "---"

// Options tunes how a Source treats the end of the input.
type Options struct {
	// FlushTrailing emits a final block that is not closed by a separator.
	// By default such a block is discarded; see Source.Dropped.
	FlushTrailing bool
}

// Source reads frames from a board file one block at a time. It is a
// single forward pass and cannot be restarted.
type Source struct {
	scanner *bufio.Scanner
	opts    Options
	header  Header
	line    int
	next    int
	dropped int
	err     error
}

// NewSource reads the header and the initial separator from r. Frames are
// read lazily by Next.
func NewSource(r io.Reader, opts Options) (*Source, error) {
	s := new(Source)
	s.scanner = bufio.NewScanner(r)
	s.opts = opts

	if err := s.readHeader(); err != nil {
		return nil, err
	}

	return s, nil
}

// ReadFile opens path, builds a Source over it and hands it to fn. The file
// is closed when ReadFile returns.
func ReadFile(path string, opts Options, fn func(*Source) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open board file: %w", err)
	}
	defer f.Close()

	s, err := NewSource(f, opts)
	if err != nil {
		return err
	}

	return fn(s)
}

// Header returns the board dimensions and the optional frame count.
func (s *Source) Header() Header {
	return s.header
}

// Dropped returns the number of coordinate lines discarded because the
// last block was never closed. It is only meaningful once Next has
// returned io.EOF.
func (s *Source) Dropped() int {
	return s.dropped
}

// Next returns the next complete frame. It returns io.EOF once the input
// is exhausted. After any error every later call returns the same error.
//
// A frame is only produced when a separator closes it. The separator after
// the header opens the first block, so "2 2\n---\n" holds no frames while
// "2 2\n---\n---\n" holds one empty frame. Lines after the last separator
// are discarded unless Options.FlushTrailing is set.
func (s *Source) Next() (Frame, error) {
	if s.err != nil {
		return Frame{}, s.err
	}

	frame := NewFrame(s.next)
	for {
		text, ok := s.readLine()
		if !ok {
			break
		}

		if text == Separator {
			s.next++
			return frame, nil
		}

		p, err := s.parsePoint(text)
		if err != nil {
			s.err = err
			return Frame{}, err
		}
		frame.Cells = append(frame.Cells, p)
	}

	if s.err != nil {
		return Frame{}, s.err
	}

	s.err = io.EOF
	if len(frame.Cells) > 0 {
		if s.opts.FlushTrailing {
			s.next++
			return frame, nil
		}
		s.dropped = len(frame.Cells)
	}

	return Frame{}, s.err
}

func (s *Source) readHeader() error {
	text, ok := s.readLine()
	if !ok {
		return s.endOfHeader("board dimensions")
	}

	fields := strings.Fields(text)
	if len(fields) != 2 {
		return s.formatError("expected board dimensions \"<width> <height>\", got %q", text)
	}

	width, err := parsePositive(fields[0])
	if err != nil {
		return s.formatError("invalid width %q", fields[0])
	}
	height, err := parsePositive(fields[1])
	if err != nil {
		return s.formatError("invalid height %q", fields[1])
	}
	s.header = Header{Width: width, Height: height}

	text, ok = s.readLine()
	if !ok {
		return s.endOfHeader("separator")
	}
	if text == Separator {
		return nil
	}

	// The newer format declares the frame count on its own line.
	fields = strings.Fields(text)
	if len(fields) != 1 {
		return s.formatError("expected separator %q, got %q", Separator, text)
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return s.formatError("expected separator %q, got %q", Separator, text)
	}
	count, err := parsePositive(fields[0])
	if err != nil {
		return s.formatError("invalid frame count %q", fields[0])
	}
	s.header.FrameCount = count

	text, ok = s.readLine()
	if !ok {
		return s.endOfHeader("separator")
	}
	if text != Separator {
		return s.formatError("expected separator %q, got %q", Separator, text)
	}

	return nil
}

func (s *Source) parsePoint(text string) (Point, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Point{}, s.formatError("expected coordinates \"<x> <y>\", got %q", text)
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return Point{}, s.formatError("invalid x coordinate %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return Point{}, s.formatError("invalid y coordinate %q", fields[1])
	}

	return Point{X: x, Y: y}, nil
}

// readLine returns the next line without surrounding whitespace. A false
// result means end of input or a read error, which is stored in s.err.
func (s *Source) readLine() (string, bool) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			s.err = fmt.Errorf("read board file: %w", err)
		}
		return "", false
	}

	s.line++
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *Source) endOfHeader(want string) error {
	if s.err != nil {
		return s.err
	}
	return &FormatError{Line: s.line + 1, Msg: "unexpected end of file, expected " + want}
}

func (s *Source) formatError(format string, args ...interface{}) error {
	return &FormatError{Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

func parsePositive(text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%d is not positive", v)
	}
	return v, nil
}
