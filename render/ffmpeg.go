package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// FrameWriter receives rendered frames in order.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}

// FFmpegOptions configures the external encoder.
type FFmpegOptions struct {
	Binary string
	Codec  string
	FPS    float64
}

// FFmpegWriter streams raw RGBA frames into an ffmpeg process which owns
// the output file.
type FFmpegWriter struct {
	size   image.Point
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	buf    *image.RGBA
	closed bool
}

// NewFFmpegWriter starts ffmpeg writing a video of the given frame size
// to path.
func NewFFmpegWriter(path string, size image.Point, opts FFmpegOptions) (*FFmpegWriter, error) {
	w := new(FFmpegWriter)
	w.size = size
	w.buf = image.NewRGBA(image.Rectangle{Max: size})

	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", size.X, size.Y),
		"-r", strconv.FormatFloat(opts.FPS, 'f', -1, 64),
		"-i", "-",
	}
	if opts.Codec != "" {
		args = append(args, "-vcodec", opts.Codec)
	}
	args = append(args, "-pix_fmt", "yuv420p", path)

	w.cmd = exec.Command(opts.Binary, args...)
	w.cmd.Stderr = &w.stderr

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	w.stdin = stdin

	if err := w.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	return w, nil
}

// WriteFrame sends one frame to the encoder. Frames of a different size
// are rejected.
func (w *FFmpegWriter) WriteFrame(img image.Image) error {
	if img.Bounds().Size() != w.size {
		return fmt.Errorf("frame size %v does not match video size %v", img.Bounds().Size(), w.size)
	}

	pix := w.pixels(img)
	if _, err := w.stdin.Write(pix); err != nil {
		// ffmpeg has most likely exited; collect its reason.
		w.closed = true
		w.stdin.Close()
		if waitErr := w.cmd.Wait(); waitErr != nil {
			return fmt.Errorf("ffmpeg: %w%s", waitErr, w.diagnostic())
		}
		return fmt.Errorf("write frame to ffmpeg: %w%s", err, w.diagnostic())
	}
	return nil
}

// Close flushes the pipe and waits for ffmpeg to finish the file. It is
// safe to call more than once.
func (w *FFmpegWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	closeErr := w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w%s", err, w.diagnostic())
	}
	if closeErr != nil {
		return fmt.Errorf("close ffmpeg stdin: %w", closeErr)
	}
	return nil
}

func (w *FFmpegWriter) pixels(img image.Image) []byte {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*w.size.X {
		b := rgba.Bounds()
		return rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y):rgba.PixOffset(b.Min.X, b.Max.Y-1)+4*w.size.X]
	}

	draw.Draw(w.buf, w.buf.Bounds(), img, img.Bounds().Min, draw.Src)
	return w.buf.Pix
}

func (w *FFmpegWriter) diagnostic() string {
	msg := strings.TrimSpace(w.stderr.String())
	if msg == "" {
		return ""
	}
	return ": " + msg
}
