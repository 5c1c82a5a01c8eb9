package worker

import "time"

// RetryPolicy shapes the backoff between spreadsheet sync attempts. The
// zero value is usable: missing fields fall back to the sync defaults.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func (r RetryPolicy) normalized() RetryPolicy {
	if r.MaxRetries <= 0 {
		r.MaxRetries = 5
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 2 * time.Second
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = time.Minute
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}
	return r
}

// NextDelay returns the wait after the given attempt (1-based), growing
// geometrically from InitialDelay and clamped at MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	r = r.normalized()

	delay := float64(r.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= r.BackoffFactor
		if delay >= float64(r.MaxDelay) {
			return r.MaxDelay
		}
	}
	return time.Duration(delay)
}
