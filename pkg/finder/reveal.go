package finder

import (
	"errors"
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/locator"
	"github.com/qualab-dev/qualab/pkg/logger"
)

// DefaultRevealAttempts bounds how many gestures Reveal performs before
// giving up.
const DefaultRevealAttempts = 3

// Swipe builds a gesture that swipes the executor in one direction.
func Swipe(exec core.GestureExecutor, direction core.Direction) core.Gesture {
	return swipeGesture{exec: exec, direction: direction}
}

type swipeGesture struct {
	exec      core.GestureExecutor
	direction core.Direction
}

func (g swipeGesture) Perform() error {
	return g.exec.Swipe(g.direction)
}

func (g swipeGesture) String() string {
	return "swipe " + string(g.direction)
}

// Reveal brings an element into the rendered tree by repeating a
// gesture until the locator matches. Presence is checked once before
// any gesture and once after each of the maxAttempts gestures, so a
// match produced by the final gesture is still seen. maxAttempts <= 0
// means DefaultRevealAttempts.
func (f *Finder) Reveal(loc locator.Locator, gesture core.Gesture, maxAttempts int) (core.Element, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRevealAttempts
	}

	for attempt := 0; ; attempt++ {
		element, err := f.source.FindElement(loc)
		if err == nil {
			logger.Debug("element %s revealed after %d gesture(s)", loc, attempt)
			return element, nil
		}
		if !errors.Is(err, core.ErrElementNotFound) {
			return nil, err
		}
		if attempt == maxAttempts {
			return nil, core.ErrElementNotFound.WithMessagef(
				"element %s was not revealed after %d gestures (%s)", loc, maxAttempts, gesture)
		}
		if err := gesture.Perform(); err != nil {
			return nil, err
		}
		time.Sleep(f.timeouts.Settle)
	}
}
