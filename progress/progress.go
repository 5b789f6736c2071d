// Package progress reports how far a render has got. Reporting is
// cosmetic: failures are logged and never stop a render.
package progress

import (
	"log"
)

// A Reporter is told when a render starts, after every frame, and when it
// finishes. total is 0 when the frame count is unknown.
type Reporter interface {
	Start(total int)
	Advance(frame int)
	Finish(frames int)
}

// LogReporter writes progress lines to a logger.
type LogReporter struct {
	logger   *log.Logger
	interval int
	total    int
}

// NewLogReporter logs every interval frames. An interval of 0 only logs
// the start and the end.
func NewLogReporter(logger *log.Logger, interval int) *LogReporter {
	r := new(LogReporter)
	r.logger = logger
	r.interval = interval
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

func (r *LogReporter) Start(total int) {
	r.total = total
	if total > 0 {
		r.logger.Printf("Rendering %d frames", total)
	} else {
		r.logger.Println("Rendering frames")
	}
}

func (r *LogReporter) Advance(frame int) {
	if r.interval == 0 || frame%r.interval != 0 {
		return
	}

	if r.total > 0 {
		r.logger.Printf("Frame %d/%d (%.0f%%)", frame, r.total, 100*float64(frame)/float64(r.total))
	} else {
		r.logger.Printf("Frame %d", frame)
	}
}

func (r *LogReporter) Finish(frames int) {
	r.logger.Printf("Found %d states", frames)
}

// Multi fans progress out to several reporters.
type Multi []Reporter

func (m Multi) Start(total int) {
	for _, r := range m {
		r.Start(total)
	}
}

func (m Multi) Advance(frame int) {
	for _, r := range m {
		r.Advance(frame)
	}
}

func (m Multi) Finish(frames int) {
	for _, r := range m {
		r.Finish(frames)
	}
}
