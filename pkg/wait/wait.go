// Package wait implements polling for conditions that become true over time.
//
// A poll evaluates its condition repeatedly, sleeping between attempts,
// until the condition produces a value, fails with an error that is not
// in the ignore list, or the timeout elapses. There is no cancellation
// beyond the timeout itself.
package wait

import (
	"errors"
	"fmt"
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
)

// Defaults applied when Options leaves the corresponding field zero.
const (
	DefaultTimeout  = 20 * time.Second
	DefaultInterval = 500 * time.Millisecond
)

// Options controls a single poll.
type Options struct {
	// Timeout bounds the whole poll. Zero means DefaultTimeout.
	Timeout time.Duration
	// Interval is the sleep between attempts. Zero means DefaultInterval.
	Interval time.Duration
	// Message becomes the timeout error text. When empty a generic
	// message naming the timeout is used.
	Message string
	// Ignore lists error kinds that keep the poll going. Any condition
	// error not matching an entry aborts the poll immediately.
	Ignore []error
}

// Until polls cond until it returns a nil error, then returns its value.
// Condition errors matching an entry in opts.Ignore are swallowed and the
// poll retries after the interval; any other error aborts the poll and is
// returned as-is. When the timeout elapses the returned error wraps the
// last swallowed condition error so the diagnosis is never lost.
//
// The condition is evaluated at least once regardless of timeout.
func Until[T any](cond func() (T, error), opts Options) (T, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var zero T
	var lastErr error
	deadline := time.Now().Add(timeout)
	for {
		value, err := cond()
		if err == nil {
			return value, nil
		}
		if !ignorable(err, opts.Ignore) {
			return zero, err
		}
		lastErr = err
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(interval)
	}

	message := opts.Message
	if message == "" {
		message = fmt.Sprintf("condition not satisfied within %v", timeout)
	}
	return zero, core.ErrWaitTimeout.WithMessage(message).WithCause(lastErr)
}

// True polls cond until it reports true. A false result counts as a
// retryable condition failure; errors follow the same ignore rules as
// Until.
func True(cond func() (bool, error), opts Options) error {
	opts.Ignore = append(append([]error(nil), opts.Ignore...), core.ErrConditionNotMet)
	_, err := Until(func() (struct{}, error) {
		ok, err := cond()
		if err != nil {
			return struct{}{}, err
		}
		if !ok {
			return struct{}{}, core.ErrConditionNotMet
		}
		return struct{}{}, nil
	}, opts)
	return err
}

func ignorable(err error, ignore []error) bool {
	for _, target := range ignore {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
