package webdriver

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/qualab-dev/qualab/pkg/core"
)

func TestElementClick(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/test-session/element/elem-1/click" {
			t.Errorf("expected click path, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		writeJSON(t, w, map[string]interface{}{"value": nil})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	if err := element.Click(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestElementClickStale(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]interface{}{
			"value": map[string]interface{}{
				"error":   "stale element reference",
				"message": "element is not attached to the page document",
			},
		})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	err := element.Click()
	if !errors.Is(err, core.ErrStaleElement) {
		t.Errorf("expected stale element error, got %v", err)
	}
}

func TestElementText(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/test-session/element/elem-1/text" {
			t.Errorf("expected text path, got %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]interface{}{"value": "Sign in"})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	text, err := element.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Sign in" {
		t.Errorf("expected Sign in, got %s", text)
	}
}

func TestElementAttribute(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/test-session/element/elem-1/attribute/content-desc" {
			t.Errorf("expected attribute path, got %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]interface{}{"value": "login button"})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	value, err := element.Attribute("content-desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "login button" {
		t.Errorf("expected login button, got %s", value)
	}
}

func TestElementDisplayedEnabled(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"value": true})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	shown, err := element.Displayed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shown {
		t.Error("expected displayed to be true")
	}

	enabled, err := element.Enabled()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enabled {
		t.Error("expected enabled to be true")
	}
}

func TestElementRect(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"value": map[string]interface{}{"x": 10, "y": 20, "width": 100, "height": 40},
		})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	rect, err := element.Rect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := core.Rect{X: 10, Y: 20, Width: 100, Height: 40}
	if rect != want {
		t.Errorf("expected %+v, got %+v", want, rect)
	}
}

func TestElementSendKeys(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/test-session/element/elem-1/value" {
			t.Errorf("expected value path, got %s", r.URL.Path)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req["text"] != "hunter2" {
			t.Errorf("expected hunter2, got %v", req["text"])
		}
		writeJSON(t, w, map[string]interface{}{"value": nil})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	if err := element.SendKeys("hunter2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestElementClear(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/test-session/element/elem-1/clear" {
			t.Errorf("expected clear path, got %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]interface{}{"value": nil})
	})
	defer server.Close()

	element := &Element{id: "elem-1", client: client}
	if err := element.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
