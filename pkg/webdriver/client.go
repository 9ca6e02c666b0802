// Package webdriver implements the W3C WebDriver client used to drive
// application sessions through an Appium server.
package webdriver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/locator"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Legacy JSON wire protocol element key still emitted by some servers.
const legacyElementKey = "ELEMENT"

// requestTimeout bounds a single HTTP round trip. Screenshots and source
// dumps on a loaded device can take a while.
const requestTimeout = 2 * time.Minute

// Client handles HTTP communication with the WebDriver server.
type Client struct {
	http      *http.Client
	baseURL   string
	sessionID string
	platform  string // ios, android
	screenW   int
	screenH   int
}

var (
	_ core.QuerySource     = (*Client)(nil)
	_ core.GestureExecutor = (*Client)(nil)
)

// NewClient creates a client for the given server URL. The platform
// steers gesture dispatch and is normalized to lower case; session
// creation overrides it with whatever the server actually reports.
func NewClient(serverURL, platform string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:  strings.TrimSuffix(serverURL, "/"),
		platform: strings.ToLower(platform),
	}
}

// Platform returns the session platform (ios/android).
func (c *Client) Platform() string {
	return c.platform
}

// SessionID returns the current session ID.
func (c *Client) SessionID() string {
	return c.sessionID
}

// HasSession returns true if a session is active.
func (c *Client) HasSession() bool {
	return c.sessionID != ""
}

// ServerStatus reports the remote end's readiness.
type ServerStatus struct {
	Ready   bool
	Message string
	Version string
}

// Status queries GET /status.
func (c *Client) Status() (*ServerStatus, error) {
	resp, err := c.get("/status")
	if err != nil {
		return nil, err
	}
	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return nil, core.ErrProtocol.WithMessage("malformed status response")
	}

	status := &ServerStatus{}
	status.Ready, _ = value["ready"].(bool)
	status.Message, _ = value["message"].(string)
	if build, ok := value["build"].(map[string]interface{}); ok {
		status.Version, _ = build["version"].(string)
	}
	return status, nil
}

// Element Operations

// FindElement locates a single element. A server-side miss surfaces as
// an element-not-found error naming the locator.
func (c *Client) FindElement(loc locator.Locator) (core.Element, error) {
	resp, err := c.post(c.sessionPath()+"/element", findRequest(loc))
	if err != nil {
		return nil, err
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return nil, core.ErrProtocol.WithMessagef("malformed find response for %s", loc)
	}

	id := extractElementID(value)
	if id == "" {
		return nil, core.ErrElementNotFound.WithMessagef("no such element: %s", loc)
	}
	return &Element{id: id, client: c}, nil
}

// FindElements locates every matching element. No matches is not an
// error; the result is simply empty.
func (c *Client) FindElements(loc locator.Locator) ([]core.Element, error) {
	resp, err := c.post(c.sessionPath()+"/elements", findRequest(loc))
	if err != nil {
		return nil, err
	}

	values, ok := resp["value"].([]interface{})
	if !ok {
		return nil, nil
	}

	var elements []core.Element
	for _, v := range values {
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if id := extractElementID(entry); id != "" {
			elements = append(elements, &Element{id: id, client: c})
		}
	}
	return elements, nil
}

func findRequest(loc locator.Locator) map[string]interface{} {
	return map[string]interface{}{
		"using": string(loc.Strategy),
		"value": loc.Value,
	}
}

// Screen Operations

// PageSource returns the UI hierarchy as XML.
func (c *Client) PageSource() (string, error) {
	resp, err := c.get(c.sessionPath() + "/source")
	if err != nil {
		return "", err
	}
	source, _ := resp["value"].(string)
	return source, nil
}

// Screenshot returns the current screen as PNG bytes.
func (c *Client) Screenshot() ([]byte, error) {
	resp, err := c.get(c.sessionPath() + "/screenshot")
	if err != nil {
		return nil, err
	}
	encoded, ok := resp["value"].(string)
	if !ok {
		return nil, core.ErrProtocol.WithMessage("malformed screenshot response")
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// WindowRect returns the dimensions of the active window.
func (c *Client) WindowRect() (core.Rect, error) {
	resp, err := c.get(c.sessionPath() + "/window/rect")
	if err != nil {
		return core.Rect{}, err
	}
	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.Rect{}, core.ErrProtocol.WithMessage("malformed window rect response")
	}

	x, _ := value["x"].(float64)
	y, _ := value["y"].(float64)
	w, _ := value["width"].(float64)
	h, _ := value["height"].(float64)
	return core.Rect{X: int(x), Y: int(y), Width: int(w), Height: int(h)}, nil
}

func (c *Client) screenSize() (int, int, error) {
	if c.screenW > 0 && c.screenH > 0 {
		return c.screenW, c.screenH, nil
	}
	rect, err := c.WindowRect()
	if err != nil {
		return 0, 0, err
	}
	c.screenW, c.screenH = rect.Width, rect.Height
	return c.screenW, c.screenH, nil
}

// DeviceLog pulls the device-side log, logcat on android and syslog on
// ios. Each returned string is one log line.
func (c *Client) DeviceLog() ([]string, error) {
	logType := "logcat"
	if c.platform == "ios" {
		logType = "syslog"
	}
	resp, err := c.post(c.sessionPath()+"/log", map[string]interface{}{"type": logType})
	if err != nil {
		return nil, err
	}
	entries, ok := resp["value"].([]interface{})
	if !ok {
		return nil, nil
	}
	lines := make([]string, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		message, _ := entry["message"].(string)
		lines = append(lines, message)
	}
	return lines, nil
}

// ExecuteScript runs a synchronous script in the session. Appium
// mobile: extensions go through this endpoint.
func (c *Client) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	resp, err := c.post(c.sessionPath()+"/execute/sync", map[string]interface{}{
		"script": script,
		"args":   args,
	})
	if err != nil {
		return nil, err
	}
	return resp["value"], nil
}

// HTTP Helpers

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) elementPath(elementID string) string {
	return c.sessionPath() + "/element/" + elementID
}

func (c *Client) get(path string) (map[string]interface{}, error) {
	return c.request("GET", path, nil)
}

func (c *Client) post(path string, body interface{}) (map[string]interface{}, error) {
	return c.request("POST", path, body)
}

func (c *Client) delete(path string) (map[string]interface{}, error) {
	return c.request("DELETE", path, nil)
}

func (c *Client) request(method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.ErrServerUnreachable.WithMessagef("%s %s", method, path).WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result map[string]interface{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, core.ErrProtocol.WithMessagef("unparseable response from %s %s: %.200s", method, path, respBody)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, wireError(result)
	}
	return result, nil
}

// wireError converts a W3C error payload into the harness error
// taxonomy so callers can classify failures with errors.Is.
func wireError(result map[string]interface{}) error {
	value, _ := result["value"].(map[string]interface{})
	code, _ := value["error"].(string)
	message, _ := value["message"].(string)

	var base *core.HarnessError
	switch code {
	case "stale element reference":
		base = core.ErrStaleElement
	case "no such element":
		base = core.ErrElementNotFound
	case "element not interactable":
		base = core.ErrElementNotInteractable
	case "timeout":
		base = core.ErrWaitTimeout
	case "invalid session id":
		base = core.ErrNoSession
	case "session not created":
		base = core.ErrSessionNotCreated
	case "invalid selector":
		base = core.ErrInvalidSelector
	case "unknown command", "unknown method", "unsupported operation":
		base = core.ErrUnsupportedOperation
	default:
		base = core.ErrProtocol
		if code != "" {
			message = strings.TrimSuffix(code+": "+message, ": ")
		}
	}

	if message != "" {
		return base.WithMessage(message)
	}
	return base
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value[legacyElementKey].(string); ok {
		return id
	}
	return ""
}
