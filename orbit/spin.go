package orbit

import "fmt"

const (
	// SpinPerFrame is the unfocused self-rotation step in radians.
	SpinPerFrame = 0.005
	// FocusedSpinDivisor slows a focused body so it can be examined.
	FocusedSpinDivisor = 5
	// ReferenceFrameRate converts per-frame steps to per-second rates.
	ReferenceFrameRate = 60.0
)

// Clock selects how self-rotation advances.
type Clock int

const (
	// PerFrame adds a fixed step each frame; speed follows the display rate.
	PerFrame Clock = iota
	// PerSecond scales the step by frame time at ReferenceFrameRate.
	PerSecond
)

func (c Clock) String() string {
	if c == PerSecond {
		return "second"
	}
	return "frame"
}

func ParseClock(s string) (Clock, error) {
	switch s {
	case "", "frame":
		return PerFrame, nil
	case "second", "time":
		return PerSecond, nil
	}
	return PerFrame, fmt.Errorf("unknown spin clock %q", s)
}

// Spin is a body's accumulated self-rotation about its Y axis.
type Spin struct {
	Clock Clock
	angle float64
}

// Step returns the increment applied for one frame of length dt seconds.
func (s Spin) Step(focused bool, dt float64) float64 {
	step := SpinPerFrame
	if focused {
		step /= FocusedSpinDivisor
	}
	if s.Clock == PerSecond {
		step *= dt * ReferenceFrameRate
	}
	return step
}

// Advance adds one frame of rotation and returns the new angle.
// Negative frame times are ignored so the angle never decreases.
func (s *Spin) Advance(focused bool, dt float64) float64 {
	if step := s.Step(focused, max(dt, 0)); step > 0 {
		s.angle += step
	}
	return s.angle
}

func (s Spin) Angle() float64 { return s.angle }
