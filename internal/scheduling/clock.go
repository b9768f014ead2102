package scheduling

import "time"

// Clock supplies the current instant. Expansion and validation take it as a
// dependency so tests can pin "now" instead of racing the wall clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by the real wall clock.
func SystemClock() Clock {
	return systemClock{}
}
