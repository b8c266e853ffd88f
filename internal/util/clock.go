package util

import "time"

// Clock abstracts "now" so eligibility checks against stored validity
// windows can be tested with fixed timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
