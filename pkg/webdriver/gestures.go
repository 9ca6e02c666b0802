package webdriver

import (
	"github.com/qualab-dev/qualab/pkg/core"
)

// SwipeOffsets describes a swipe as fractions of the screen dimensions.
type SwipeOffsets struct {
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
}

// Partial-scroll presets for lists where a full-screen swipe overshoots.
var (
	OffsetsUp30   = SwipeOffsets{StartX: 0.5, StartY: 0.8, EndX: 0.5, EndY: 0.5}
	OffsetsUp10   = SwipeOffsets{StartX: 0.5, StartY: 0.8, EndX: 0.5, EndY: 0.7}
	OffsetsDown40 = SwipeOffsets{StartX: 0.5, StartY: 0.5, EndX: 0.5, EndY: 0.9}
)

// androidSwipeOffsets maps swipe directions to screen-fraction endpoints.
// Directions without an entry are not supported on Android.
var androidSwipeOffsets = map[core.Direction]SwipeOffsets{
	core.DirectionUp:   {StartX: 0.5, StartY: 0.9, EndX: 0.5, EndY: 0},
	core.DirectionDown: {StartX: 0.5, StartY: 0.9, EndX: 0.5, EndY: 0.45},
}

// swipeDuration is the pointer move time in milliseconds.
const swipeDuration = 300

// Swipe performs a directional swipe appropriate for the session
// platform. iOS delegates to the XCUITest mobile: swipe extension;
// Android computes screen coordinates from the direction's offsets.
func (c *Client) Swipe(direction core.Direction) error {
	switch c.platform {
	case "ios":
		_, err := c.ExecuteScript("mobile: swipe", []interface{}{
			map[string]interface{}{"direction": string(direction)},
		})
		return err
	case "android":
		offsets, ok := androidSwipeOffsets[direction]
		if !ok {
			return core.ErrUnsupportedOperation.WithMessagef("swipe %s is not available on android", direction)
		}
		return c.SwipeByOffsets(offsets)
	default:
		return core.ErrUnsupportedOperation.WithMessagef("swipe %s is not available on platform %q", direction, c.platform)
	}
}

// SwipeByOffsets swipes between two points given as screen fractions.
// Coordinates are clamped to stay inside the visible screen, otherwise
// the server rejects the pointer sequence.
func (c *Client) SwipeByOffsets(offsets SwipeOffsets) error {
	w, h, err := c.screenSize()
	if err != nil {
		return err
	}

	startX := clamp(int(float64(w)*offsets.StartX), 1, w-1)
	startY := clamp(int(float64(h)*offsets.StartY), 1, h-1)
	endX := clamp(int(float64(w)*offsets.EndX), 1, w-1)
	endY := clamp(int(float64(h)*offsets.EndY), 1, h-1)

	return c.performPointerActions([]map[string]interface{}{
		{"type": "pointerMove", "duration": 0, "x": startX, "y": startY},
		{"type": "pointerDown", "button": 0},
		{"type": "pointerMove", "duration": swipeDuration, "x": endX, "y": endY},
		{"type": "pointerUp", "button": 0},
	})
}

func (c *Client) performPointerActions(actions []map[string]interface{}) error {
	payload := []map[string]interface{}{
		{
			"type":       "pointer",
			"id":         "finger1",
			"parameters": map[string]interface{}{"pointerType": "touch"},
			"actions":    actions,
		},
	}
	_, err := c.post(c.sessionPath()+"/actions", map[string]interface{}{"actions": payload})
	return err
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
