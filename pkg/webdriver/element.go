package webdriver

import (
	"github.com/qualab-dev/qualab/pkg/core"
)

// Element is a handle to a single element inside a session. Handles go
// stale when the UI re-renders; callers are expected to re-query rather
// than hold on to them.
type Element struct {
	id     string
	client *Client
}

var _ core.Element = (*Element)(nil)

// ID returns the server-assigned element identifier.
func (e *Element) ID() string {
	return e.id
}

func (e *Element) path(suffix string) string {
	return e.client.elementPath(e.id) + suffix
}

// Click clicks the element.
func (e *Element) Click() error {
	_, err := e.client.post(e.path("/click"), nil)
	return err
}

// Text returns the element's visible text.
func (e *Element) Text() (string, error) {
	resp, err := e.client.get(e.path("/text"))
	if err != nil {
		return "", err
	}
	text, _ := resp["value"].(string)
	return text, nil
}

// Attribute returns the named attribute's value.
func (e *Element) Attribute(name string) (string, error) {
	resp, err := e.client.get(e.path("/attribute/" + name))
	if err != nil {
		return "", err
	}
	value, _ := resp["value"].(string)
	return value, nil
}

// Displayed checks if the element is visible.
func (e *Element) Displayed() (bool, error) {
	resp, err := e.client.get(e.path("/displayed"))
	if err != nil {
		return false, err
	}
	displayed, _ := resp["value"].(bool)
	return displayed, nil
}

// Enabled checks if the element is enabled.
func (e *Element) Enabled() (bool, error) {
	resp, err := e.client.get(e.path("/enabled"))
	if err != nil {
		return false, err
	}
	enabled, _ := resp["value"].(bool)
	return enabled, nil
}

// Rect returns the element's position and size.
func (e *Element) Rect() (core.Rect, error) {
	resp, err := e.client.get(e.path("/rect"))
	if err != nil {
		return core.Rect{}, err
	}
	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.Rect{}, core.ErrProtocol.WithMessage("malformed rect response")
	}

	x, _ := value["x"].(float64)
	y, _ := value["y"].(float64)
	w, _ := value["width"].(float64)
	h, _ := value["height"].(float64)
	return core.Rect{X: int(x), Y: int(y), Width: int(w), Height: int(h)}, nil
}

// SendKeys types text into the element.
func (e *Element) SendKeys(text string) error {
	_, err := e.client.post(e.path("/value"), map[string]interface{}{"text": text})
	return err
}

// Clear clears the element's text.
func (e *Element) Clear() error {
	_, err := e.client.post(e.path("/clear"), nil)
	return err
}
