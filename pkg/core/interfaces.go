// Package core provides the capability interfaces and error model for the harness.
package core

import (
	"github.com/qualab-dev/qualab/pkg/locator"
)

// QuerySource finds elements matching a locator. The element interaction
// layer is written against this interface so it can run against any
// WebDriver-style backend, or against fakes in tests.
type QuerySource interface {
	// FindElement returns the first element matching the locator.
	// Returns ErrElementNotFound when nothing matches.
	FindElement(loc locator.Locator) (Element, error)

	// FindElements returns all elements matching the locator.
	// An empty slice with a nil error means nothing matched.
	FindElements(loc locator.Locator) ([]Element, error)
}

// Clickable accepts click input.
type Clickable interface {
	Click() error
}

// Element is a handle to a single UI element returned by a QuerySource.
// Operations on a handle whose element left the UI tree return
// ErrStaleElement.
type Element interface {
	Clickable

	// Text returns the element's visible text.
	Text() (string, error)

	// Attribute returns the named attribute's value.
	Attribute(name string) (string, error)

	// Displayed reports whether the element is visible in the viewport.
	Displayed() (bool, error)

	// Enabled reports whether the element accepts interaction.
	Enabled() (bool, error)

	// Rect returns the element's position and size.
	Rect() (Rect, error)

	// SendKeys types text into the element.
	SendKeys(text string) error

	// Clear clears the element's text.
	Clear() error
}

// GestureExecutor performs screen-level gestures.
type GestureExecutor interface {
	// Swipe swipes the screen in the given direction. Returns
	// ErrUnsupportedOperation when the platform has no implementation
	// for the direction.
	Swipe(direction Direction) error
}

// Gesture is a reusable screen action, typically a bound swipe.
// String identifies the gesture in diagnostics.
type Gesture interface {
	Perform() error
	String() string
}

// Direction of a swipe or scroll gesture
type Direction string

// Swipe directions
const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Rect represents element or window position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the rect
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains checks if a point is within the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
