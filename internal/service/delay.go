package service

import (
	"math/rand"
	"time"
)

// SimulateDelay blocks the calling goroutine for a uniformly random number of
// milliseconds in [minMs, maxMs] and returns the delay actually applied.
// Negative minMs is clamped to 0 and maxMs is clamped up to minMs. The sleep
// is intentionally synchronous so the mock emulates a slow backend; it stalls
// only the goroutine serving the current request.
func SimulateDelay(minMs, maxMs int) int {
	if minMs < 0 {
		minMs = 0
	}
	if maxMs < minMs {
		maxMs = minMs
	}

	delay := minMs + rand.Intn(maxMs-minMs+1)
	time.Sleep(time.Duration(delay) * time.Millisecond)
	return delay
}
