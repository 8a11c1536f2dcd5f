package style

import (
	"math/rand"
	"time"
)

// RandomPace returns a pacer that sleeps a random duration in [min, max].
// It only slows terminal output down; nothing depends on it.
func RandomPace(min, max time.Duration) func() {
	if max < min {
		min, max = max, min
	}
	return func() {
		time.Sleep(min + time.Duration(rand.Int63n(int64(max-min)+1)))
	}
}
