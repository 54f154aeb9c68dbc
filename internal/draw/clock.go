package draw

import "time"

// Clock provides the reveal delay. Tests substitute virtual time.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock waits on wall-clock time.
var RealClock Clock = realClock{}
