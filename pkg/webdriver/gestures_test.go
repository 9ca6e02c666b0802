package webdriver

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/qualab-dev/qualab/pkg/core"
)

// decodePointerMoves pulls the pointerMove actions out of a W3C actions
// payload in the order they were sent.
func decodePointerMoves(t *testing.T, r *http.Request) []map[string]interface{} {
	t.Helper()
	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode actions payload: %v", err)
	}
	sequences, ok := req["actions"].([]interface{})
	if !ok || len(sequences) != 1 {
		t.Fatalf("expected a single pointer sequence, got %v", req["actions"])
	}
	seq := sequences[0].(map[string]interface{})
	if seq["type"] != "pointer" {
		t.Errorf("expected pointer sequence, got %v", seq["type"])
	}
	var moves []map[string]interface{}
	for _, a := range seq["actions"].([]interface{}) {
		action := a.(map[string]interface{})
		if action["type"] == "pointerMove" {
			moves = append(moves, action)
		}
	}
	return moves
}

func TestSwipeAndroidUp(t *testing.T) {
	var moves []map[string]interface{}
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session/test-session/window/rect":
			writeJSON(t, w, map[string]interface{}{
				"value": map[string]interface{}{"x": 0, "y": 0, "width": 400, "height": 800},
			})
		case "/session/test-session/actions":
			moves = decodePointerMoves(t, r)
			writeJSON(t, w, map[string]interface{}{"value": nil})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	})
	defer server.Close()

	if err := client.Swipe(core.DirectionUp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("expected 2 pointer moves, got %d", len(moves))
	}

	// Up swipe on 400x800: start (200, 720), end clamped to (200, 1).
	if x, y := moves[0]["x"].(float64), moves[0]["y"].(float64); x != 200 || y != 720 {
		t.Errorf("expected start (200,720), got (%v,%v)", x, y)
	}
	if x, y := moves[1]["x"].(float64), moves[1]["y"].(float64); x != 200 || y != 1 {
		t.Errorf("expected end clamped to (200,1), got (%v,%v)", x, y)
	}
}

func TestSwipeAndroidDown(t *testing.T) {
	var moves []map[string]interface{}
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session/test-session/window/rect":
			writeJSON(t, w, map[string]interface{}{
				"value": map[string]interface{}{"width": 400, "height": 800},
			})
		case "/session/test-session/actions":
			moves = decodePointerMoves(t, r)
			writeJSON(t, w, map[string]interface{}{"value": nil})
		}
	})
	defer server.Close()

	if err := client.Swipe(core.DirectionDown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x, y := moves[1]["x"].(float64), moves[1]["y"].(float64); x != 200 || y != 360 {
		t.Errorf("expected end (200,360), got (%v,%v)", x, y)
	}
}

func TestSwipeAndroidUnsupportedDirection(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request should be sent, got %s", r.URL.Path)
	})
	defer server.Close()

	err := client.Swipe(core.DirectionLeft)
	if !errors.Is(err, core.ErrUnsupportedOperation) {
		t.Errorf("expected unsupported operation error, got %v", err)
	}
}

func TestSwipeIOS(t *testing.T) {
	var script string
	var args []interface{}
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/test-session/execute/sync" {
			t.Errorf("expected execute path, got %s", r.URL.Path)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		script, _ = req["script"].(string)
		args, _ = req["args"].([]interface{})
		writeJSON(t, w, map[string]interface{}{"value": nil})
	})
	defer server.Close()
	client.platform = "ios"

	if err := client.Swipe(core.DirectionLeft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if script != "mobile: swipe" {
		t.Errorf("expected mobile: swipe, got %s", script)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	if dir := args[0].(map[string]interface{})["direction"]; dir != "left" {
		t.Errorf("expected direction left, got %v", dir)
	}
}

func TestSwipeUnknownPlatform(t *testing.T) {
	client := NewClient("http://localhost:4723", "windows")
	err := client.Swipe(core.DirectionUp)
	if !errors.Is(err, core.ErrUnsupportedOperation) {
		t.Errorf("expected unsupported operation error, got %v", err)
	}
}

func TestSwipeByOffsetsUsesCachedScreenSize(t *testing.T) {
	rectCalls := 0
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/session/test-session/window/rect":
			rectCalls++
			writeJSON(t, w, map[string]interface{}{
				"value": map[string]interface{}{"width": 1080, "height": 2340},
			})
		case "/session/test-session/actions":
			writeJSON(t, w, map[string]interface{}{"value": nil})
		}
	})
	defer server.Close()

	if err := client.SwipeByOffsets(OffsetsUp30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.SwipeByOffsets(OffsetsDown40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rectCalls != 1 {
		t.Errorf("expected screen size to be fetched once, got %d", rectCalls)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{500, 1, 799, 500},
		{0, 1, 799, 1},
		{-10, 1, 799, 1},
		{800, 1, 799, 799},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
