package core

import (
	"github.com/qualab-dev/qualab/pkg/locator"
)

// Test fakes for packages that exercise the capability interfaces.

var (
	_ Element         = (*FakeElement)(nil)
	_ QuerySource     = (*FakeQuerySource)(nil)
	_ GestureExecutor = (*FakeGestures)(nil)
)

// FakeElement implements Element with scripted state.
type FakeElement struct {
	TextValue string
	Attrs     map[string]string
	IsShown   bool
	IsEnabled bool
	Bounds    Rect

	// ClickErrs is consumed one entry per Click call; a nil entry means
	// that click succeeds. Once the queue is empty clicks succeed.
	ClickErrs []error

	// StateErr, when set, is returned by every accessor.
	StateErr error

	Clicks     int
	TypedKeys  []string
	ClearCalls int
}

// NewTestElement returns a visible, enabled element with the given text.
func NewTestElement(text string) *FakeElement {
	return &FakeElement{
		TextValue: text,
		IsShown:   true,
		IsEnabled: true,
		Bounds:    Rect{X: 0, Y: 0, Width: 100, Height: 40},
	}
}

// Click records the call and pops the next scripted error.
func (e *FakeElement) Click() error {
	e.Clicks++
	if len(e.ClickErrs) > 0 {
		err := e.ClickErrs[0]
		e.ClickErrs = e.ClickErrs[1:]
		return err
	}
	return nil
}

// Text returns the scripted text.
func (e *FakeElement) Text() (string, error) {
	if e.StateErr != nil {
		return "", e.StateErr
	}
	return e.TextValue, nil
}

// Attribute returns the scripted attribute value.
func (e *FakeElement) Attribute(name string) (string, error) {
	if e.StateErr != nil {
		return "", e.StateErr
	}
	return e.Attrs[name], nil
}

// Displayed returns the scripted visibility.
func (e *FakeElement) Displayed() (bool, error) {
	if e.StateErr != nil {
		return false, e.StateErr
	}
	return e.IsShown, nil
}

// Enabled returns the scripted enabled state.
func (e *FakeElement) Enabled() (bool, error) {
	if e.StateErr != nil {
		return false, e.StateErr
	}
	return e.IsEnabled, nil
}

// Rect returns the scripted bounds.
func (e *FakeElement) Rect() (Rect, error) {
	if e.StateErr != nil {
		return Rect{}, e.StateErr
	}
	return e.Bounds, nil
}

// SendKeys records the typed text.
func (e *FakeElement) SendKeys(text string) error {
	if e.StateErr != nil {
		return e.StateErr
	}
	e.TypedKeys = append(e.TypedKeys, text)
	return nil
}

// Clear records the call.
func (e *FakeElement) Clear() error {
	if e.StateErr != nil {
		return e.StateErr
	}
	e.ClearCalls++
	return nil
}

// LookupResult is one scripted FindElement outcome.
type LookupResult struct {
	Element Element
	Err     error
}

// LookupListResult is one scripted FindElements outcome.
type LookupListResult struct {
	Elements []Element
	Err      error
}

// FakeQuerySource implements QuerySource with scripted results. Queues
// are consumed one entry per call and the last entry repeats once the
// queue runs down to it. An empty queue behaves as "nothing matched".
type FakeQuerySource struct {
	FindQueue    []LookupResult
	FindAllQueue []LookupListResult

	FindCalls    int
	FindAllCalls int
	LastLocator  locator.Locator
}

// FindElement pops the next scripted single-element result.
func (s *FakeQuerySource) FindElement(loc locator.Locator) (Element, error) {
	s.FindCalls++
	s.LastLocator = loc
	if len(s.FindQueue) == 0 {
		return nil, ErrElementNotFound
	}
	r := s.FindQueue[0]
	if len(s.FindQueue) > 1 {
		s.FindQueue = s.FindQueue[1:]
	}
	return r.Element, r.Err
}

// FindElements pops the next scripted element-list result.
func (s *FakeQuerySource) FindElements(loc locator.Locator) ([]Element, error) {
	s.FindAllCalls++
	s.LastLocator = loc
	if len(s.FindAllQueue) == 0 {
		return nil, nil
	}
	r := s.FindAllQueue[0]
	if len(s.FindAllQueue) > 1 {
		s.FindAllQueue = s.FindAllQueue[1:]
	}
	return r.Elements, r.Err
}

// FakeGestures implements GestureExecutor and records performed swipes.
type FakeGestures struct {
	Swipes   []Direction
	SwipeErr error
}

// Swipe records the direction and returns the scripted error.
func (g *FakeGestures) Swipe(direction Direction) error {
	g.Swipes = append(g.Swipes, direction)
	return g.SwipeErr
}
