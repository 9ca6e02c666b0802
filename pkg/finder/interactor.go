package finder

import (
	"errors"
	"fmt"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/locator"
	"github.com/qualab-dev/qualab/pkg/logger"
	"github.com/qualab-dev/qualab/pkg/wait"
)

// Interactor performs element interactions that survive UI churn by
// re-fetching handles instead of trusting old ones.
type Interactor struct {
	finder *Finder
}

// NewInteractor creates an interactor over finder.
func NewInteractor(finder *Finder) *Interactor {
	return &Interactor{finder: finder}
}

// Tap keeps looking the locator up and clicking until a click lands or
// the interaction timeout expires. Handles that are missing or stale at
// either step are simply retried; any other failure aborts immediately.
func (i *Interactor) Tap(loc locator.Locator) error {
	f := i.finder
	message := fmt.Sprintf("could not tap element: %s", loc)
	_, err := wait.Until(func() (struct{}, error) {
		element, err := f.source.FindElement(loc)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, element.Click()
	}, wait.Options{
		Timeout:  f.timeouts.Interaction,
		Interval: f.timeouts.PollInterval,
		Message:  message,
		Ignore:   []error{core.ErrElementNotFound, core.ErrStaleElement},
	})
	return err
}

// ClickWithRefetch waits for the element to become clickable, fetches a
// fresh handle, and clicks it. A click that hits a stale handle gets one
// re-fetch and one more click; a second stale failure is returned.
func (i *Interactor) ClickWithRefetch(loc locator.Locator) error {
	f := i.finder
	if _, err := f.FindClickable(loc, 0); err != nil {
		return err
	}

	element, err := f.Find(loc, 0)
	if err != nil {
		return err
	}
	logger.Debug("element %s is ready for interaction, performing click", loc)

	err = element.Click()
	if err == nil || !errors.Is(err, core.ErrStaleElement) {
		return err
	}

	logger.Debug("stale element detected during click, re-fetching %s", loc)
	element, err = f.Find(loc, 0)
	if err != nil {
		return err
	}
	return element.Click()
}
