package utils

import "time"

// Timer measures wall-clock time between a start and a stop event.
// [NewTimer] starts the measurement immediately; call [Timer.Stop] to
// capture it and [Timer.GetDuration] to read it back.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer creates a Timer whose measurement begins now.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement from now, reusing the instance.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop captures the time elapsed since construction or the last Start.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration captured by the most recent Stop, or zero
// when Stop has not been called.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
