// Package retry repeats an operation a bounded number of times.
package retry

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Policy is a bounded retry policy with a fixed delay between attempts.
type Policy struct {
	// Attempts is the total number of tries, values below 1 mean a single try.
	Attempts int

	// Delay between two attempts.
	Delay time.Duration

	// Clock used for the delay, nil is the real clock.
	Clock clockwork.Clock
}

// Do calls fn until it succeeds, returns an error that retryable rejects, or the attempts
// run out. The last error is returned.
func (p Policy) Do(fn func() error, retryable func(error) bool) error {
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	attempts := max(p.Attempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= attempts || (retryable != nil && !retryable(err)) {
			return err
		}
		log.Debug().Err(err).Int("attempt", attempt).Dur("delay", p.Delay).Msg("retry")
		if p.Delay > 0 {
			clock.Sleep(p.Delay)
		}
	}
}
