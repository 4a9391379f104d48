// Package profiler provides lightweight timing for the transcoding
// pipeline: per-stage wall-clock measurements and a rolling-window
// framerate estimate. The transform core stays instrumentation-free;
// only the CLI uses this package.
package profiler

import (
	"fmt"
	"io"
	"time"
)

// StageTimer measures named pipeline stages. When Out is nil the timer
// is a no-op, so it can be threaded through unconditionally and only
// report under verbose mode.
type StageTimer struct {
	Out   io.Writer
	start time.Time
}

// NewStageTimer returns a timer that writes stage reports to out.
// A nil out disables reporting.
func NewStageTimer(out io.Writer) *StageTimer {
	return &StageTimer{Out: out}
}

// Start marks the beginning of a stage.
func (t *StageTimer) Start() {
	if t.Out == nil {
		return
	}
	t.start = time.Now()
}

// Stop reports the elapsed time since Start under the given name.
func (t *StageTimer) Stop(name string) {
	if t.Out == nil {
		return
	}
	fmt.Fprintf(t.Out, "%s = %.3f ms\n", name, float64(time.Since(t.start).Microseconds())/1000.0)
}

// maxSamples is the rolling window length for framerate estimation.
const maxSamples = 100

// FramerateProfiler estimates frames per second as a rolling average
// over the last maxSamples frames. The average ramps up until the
// window is full.
type FramerateProfiler struct {
	tickIndex        int
	tickSum          time.Duration
	tickList         [maxSamples]time.Duration
	samplesCollected int
	frameStart       time.Time
}

// StartFrame marks the beginning of a frame.
func (p *FramerateProfiler) StartFrame() {
	p.frameStart = time.Now()
}

// FinishFrame records the frame that began at the last StartFrame.
func (p *FramerateProfiler) FinishFrame() {
	p.profileFrame(time.Since(p.frameStart))
}

// Framerate returns the average frames per second over the window, or
// 0 before any frame completes.
func (p *FramerateProfiler) Framerate() float64 {
	if p.tickSum == 0 {
		return 0
	}
	return float64(p.samplesCollected) / p.tickSum.Seconds()
}

func (p *FramerateProfiler) profileFrame(frameTime time.Duration) {
	p.tickSum -= p.tickList[p.tickIndex]
	p.tickSum += frameTime
	p.tickList[p.tickIndex] = frameTime
	p.tickIndex = (p.tickIndex + 1) % maxSamples
	if p.samplesCollected < maxSamples {
		p.samplesCollected++
	}
}
