// Package finder implements element lookup with explicit waits layered
// over a query source. Lookups tolerate the churn of a rendering UI:
// elements that are not there yet or went stale are retried until the
// wait budget runs out, and failures always name the locator involved.
package finder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/locator"
	"github.com/qualab-dev/qualab/pkg/logger"
	"github.com/qualab-dev/qualab/pkg/wait"
)

// Defaults for zero Timeouts fields.
const (
	DefaultElementTimeout     = 20 * time.Second
	DefaultInteractionTimeout = 20 * time.Second
	DefaultSettle             = 2 * time.Second
)

// Timeouts groups the wait budgets a finder works with.
type Timeouts struct {
	// Element bounds presence waits.
	Element time.Duration
	// Interaction bounds retried interactions such as Tap.
	Interaction time.Duration
	// PollInterval is the sleep between condition checks.
	PollInterval time.Duration
	// Settle is the pause after a gesture before re-querying.
	Settle time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Element <= 0 {
		t.Element = DefaultElementTimeout
	}
	if t.Interaction <= 0 {
		t.Interaction = DefaultInteractionTimeout
	}
	if t.PollInterval <= 0 {
		t.PollInterval = wait.DefaultInterval
	}
	if t.Settle <= 0 {
		t.Settle = DefaultSettle
	}
	return t
}

// Finder locates elements through a query source.
type Finder struct {
	source   core.QuerySource
	timeouts Timeouts
}

// New creates a finder over source. Zero timeout fields fall back to
// the package defaults.
func New(source core.QuerySource, timeouts Timeouts) *Finder {
	return &Finder{source: source, timeouts: timeouts.withDefaults()}
}

func (f *Finder) pollOpts(timeout time.Duration, message string, ignore ...error) wait.Options {
	if timeout <= 0 {
		timeout = f.timeouts.Element
	}
	return wait.Options{
		Timeout:  timeout,
		Interval: f.timeouts.PollInterval,
		Message:  message,
		Ignore:   ignore,
	}
}

// Find waits until the locator matches, then queries again and returns
// the fresh handle. The second lookup avoids handing out a reference
// that went stale while the wait loop slept. A zero timeout means the
// finder's element timeout.
func (f *Finder) Find(loc locator.Locator, timeout time.Duration) (core.Element, error) {
	message := fmt.Sprintf("element could not be found using the specified criteria: %s", loc)
	_, err := wait.Until(func() (core.Element, error) {
		return f.source.FindElement(loc)
	}, f.pollOpts(timeout, message, core.ErrElementNotFound, core.ErrStaleElement))
	if err != nil {
		return nil, err
	}
	return f.source.FindElement(loc)
}

// FindAll waits until at least one element matches, then queries again
// and returns the fresh list.
func (f *Finder) FindAll(loc locator.Locator, timeout time.Duration) ([]core.Element, error) {
	message := fmt.Sprintf("no matching elements found using the specified criteria: %s", loc)
	_, err := wait.Until(func() ([]core.Element, error) {
		elements, err := f.source.FindElements(loc)
		if err != nil {
			return nil, err
		}
		if len(elements) == 0 {
			return nil, core.ErrElementNotFound.WithMessagef("no matches for %s", loc)
		}
		return elements, nil
	}, f.pollOpts(timeout, message, core.ErrElementNotFound, core.ErrStaleElement))
	if err != nil {
		return nil, err
	}
	return f.source.FindElements(loc)
}

// FindText waits until some element matching the locator contains text
// and returns that element's full text. Elements going stale mid-scan
// are skipped; the scan picks them up again on the next poll.
func (f *Finder) FindText(loc locator.Locator, text string, timeout time.Duration) (string, error) {
	message := fmt.Sprintf("no elements contained the specified text %q: %s", text, loc)
	return wait.Until(func() (string, error) {
		elements, err := f.source.FindElements(loc)
		if err != nil {
			return "", err
		}
		for _, element := range elements {
			actual, err := element.Text()
			if err != nil {
				if errors.Is(err, core.ErrStaleElement) {
					continue
				}
				return "", err
			}
			if strings.Contains(actual, text) {
				return actual, nil
			}
		}
		return "", core.ErrConditionNotMet.WithMessagef("text %q not present in %d candidate(s)", text, len(elements))
	}, f.pollOpts(timeout, message, core.ErrConditionNotMet, core.ErrElementNotFound, core.ErrStaleElement))
}

// Optional looks the locator up once, without waiting. Absence is not
// an error; the second return value reports whether a match exists.
func (f *Finder) Optional(loc locator.Locator) (core.Element, bool, error) {
	element, err := f.source.FindElement(loc)
	if err != nil {
		if errors.Is(err, core.ErrElementNotFound) {
			logger.Debug("optional element was not found: %s", loc)
			return nil, false, nil
		}
		return nil, false, err
	}
	return element, true, nil
}

// WaitInvisible waits until no visible element matches the locator.
// Absent counts as invisible, and a handle that goes stale while being
// checked is treated as gone.
func (f *Finder) WaitInvisible(loc locator.Locator, timeout time.Duration) error {
	message := fmt.Sprintf("element remained visible: %s", loc)
	return wait.True(func() (bool, error) {
		element, err := f.source.FindElement(loc)
		if err != nil {
			if errors.Is(err, core.ErrElementNotFound) || errors.Is(err, core.ErrStaleElement) {
				return true, nil
			}
			return false, err
		}
		shown, err := element.Displayed()
		if err != nil {
			if errors.Is(err, core.ErrElementNotFound) || errors.Is(err, core.ErrStaleElement) {
				return true, nil
			}
			return false, err
		}
		return !shown, nil
	}, f.pollOpts(timeout, message))
}

// FindClickable waits until the locator matches an element that is both
// displayed and enabled, and returns it.
func (f *Finder) FindClickable(loc locator.Locator, timeout time.Duration) (core.Element, error) {
	message := fmt.Sprintf("element never became clickable: %s", loc)
	return wait.Until(func() (core.Element, error) {
		element, err := f.source.FindElement(loc)
		if err != nil {
			return nil, err
		}
		shown, err := element.Displayed()
		if err != nil {
			return nil, err
		}
		enabled, err := element.Enabled()
		if err != nil {
			return nil, err
		}
		if !shown || !enabled {
			return nil, core.ErrConditionNotMet.WithMessagef("element %s is present but not ready", loc)
		}
		return element, nil
	}, f.pollOpts(timeout, message, core.ErrElementNotFound, core.ErrStaleElement, core.ErrConditionNotMet))
}

// Text waits for the element and returns its text.
func (f *Finder) Text(loc locator.Locator) (string, error) {
	element, err := f.Find(loc, 0)
	if err != nil {
		return "", err
	}
	return element.Text()
}

// Value waits for the element and returns its value attribute.
func (f *Finder) Value(loc locator.Locator) (string, error) {
	element, err := f.Find(loc, 0)
	if err != nil {
		return "", err
	}
	return element.Attribute("value")
}
