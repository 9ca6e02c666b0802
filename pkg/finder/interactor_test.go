package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/locator"
)

func TestTap_RetriesUntilClickLands(t *testing.T) {
	element := core.NewTestElement("Save")
	element.ClickErrs = []error{core.ErrStaleElement, core.ErrStaleElement}
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(element)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.Tap(locator.ByID("save"))

	require.NoError(t, err)
	assert.Equal(t, 3, element.Clicks, "stale clicks must be retried with a fresh lookup")
}

func TestTap_ElementAppearsLate(t *testing.T) {
	element := core.NewTestElement("Save")
	source := &core.FakeQuerySource{
		FindQueue: []core.LookupResult{notFound(), notFound(), found(element)},
	}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.Tap(locator.ByID("save"))

	require.NoError(t, err)
	assert.Equal(t, 1, element.Clicks)
}

func TestTap_TimeoutNamesLocator(t *testing.T) {
	source := &core.FakeQuerySource{}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.Tap(locator.ByID("save"))

	require.ErrorIs(t, err, core.ErrWaitTimeout)
	assert.Contains(t, err.Error(), "could not tap element: id=save")
}

func TestTap_UnexpectedClickErrorAborts(t *testing.T) {
	element := core.NewTestElement("Save")
	element.ClickErrs = []error{core.ErrElementNotInteractable}
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(element)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.Tap(locator.ByID("save"))

	require.ErrorIs(t, err, core.ErrElementNotInteractable)
	assert.Equal(t, 1, element.Clicks, "only missing and stale handles are retried")
}

func TestClickWithRefetch_ClicksFreshHandle(t *testing.T) {
	element := core.NewTestElement("Submit")
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(element)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.ClickWithRefetch(locator.ByID("submit"))

	require.NoError(t, err)
	assert.Equal(t, 1, element.Clicks)
}

func TestClickWithRefetch_RefetchesOnceOnStale(t *testing.T) {
	element := core.NewTestElement("Submit")
	element.ClickErrs = []error{core.ErrStaleElement}
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(element)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.ClickWithRefetch(locator.ByID("submit"))

	require.NoError(t, err)
	assert.Equal(t, 2, element.Clicks)
}

func TestClickWithRefetch_SecondStaleFails(t *testing.T) {
	element := core.NewTestElement("Submit")
	element.ClickErrs = []error{core.ErrStaleElement, core.ErrStaleElement}
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(element)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.ClickWithRefetch(locator.ByID("submit"))

	require.ErrorIs(t, err, core.ErrStaleElement)
	assert.Equal(t, 2, element.Clicks, "a single re-fetch is allowed, not a loop")
}

func TestClickWithRefetch_NeverClickable(t *testing.T) {
	hidden := &core.FakeElement{IsShown: false, IsEnabled: true}
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(hidden)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.ClickWithRefetch(locator.ByID("submit"))

	require.ErrorIs(t, err, core.ErrWaitTimeout)
	assert.Contains(t, err.Error(), "element never became clickable")
	assert.Equal(t, 0, hidden.Clicks)
}

func TestClickWithRefetch_NonStaleClickErrorPropagates(t *testing.T) {
	element := core.NewTestElement("Submit")
	element.ClickErrs = []error{core.ErrElementNotInteractable}
	source := &core.FakeQuerySource{FindQueue: []core.LookupResult{found(element)}}
	interactor := NewInteractor(newTestFinder(source))

	err := interactor.ClickWithRefetch(locator.ByID("submit"))

	require.ErrorIs(t, err, core.ErrElementNotInteractable)
	assert.Equal(t, 1, element.Clicks)
}
