package webdriver

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-version"

	"github.com/qualab-dev/qualab/pkg/core"
)

// Session creation polls GET /status until the server reports ready.
// Vars rather than consts so tests can shrink them.
var (
	serverProbeInterval = 500 * time.Millisecond
	serverWaitTimeout   = 30 * time.Second
)

// minServerVersion is the oldest Appium release the harness has been
// verified against. Servers that do not report a version are let
// through.
var minServerVersion = version.Must(version.NewVersion("2.0.0"))

// CreateSession waits for the server to become ready, checks its
// version, and opens a session with the given capabilities. The
// platform reported back by the server replaces whatever the client
// was constructed with.
func (c *Client) CreateSession(capabilities map[string]interface{}) error {
	status, err := c.waitForServer()
	if err != nil {
		return err
	}
	if status.Version != "" {
		if v, err := version.NewVersion(status.Version); err == nil && v.LessThan(minServerVersion) {
			return core.ErrSessionNotCreated.WithMessagef(
				"server version %s is below the minimum supported %s", v, minServerVersion)
		}
	}

	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}
	resp, err := c.post("/session", body)
	if err != nil {
		return err
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.ErrSessionNotCreated.WithMessage("malformed session response")
	}

	sessionID, _ := value["sessionId"].(string)
	if sessionID == "" {
		// Older servers put the ID on the envelope instead.
		sessionID, _ = resp["sessionId"].(string)
	}
	if sessionID == "" {
		return core.ErrSessionNotCreated.WithMessage("no session ID in response")
	}
	c.sessionID = sessionID

	if caps, ok := value["capabilities"].(map[string]interface{}); ok {
		if platform, ok := caps["platformName"].(string); ok && platform != "" {
			c.platform = strings.ToLower(platform)
		}
	}
	return nil
}

// waitForServer polls GET /status with exponential backoff until the
// server reports ready.
func (c *Client) waitForServer() (*ServerStatus, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = serverProbeInterval
	policy.MaxElapsedTime = serverWaitTimeout

	var status *ServerStatus
	probe := func() error {
		s, err := c.Status()
		if err != nil {
			return err
		}
		if !s.Ready {
			return core.ErrServerUnreachable.WithMessage("server reports not ready")
		}
		status = s
		return nil
	}
	if err := backoff.Retry(probe, policy); err != nil {
		return nil, core.ErrServerUnreachable.WithMessagef("no usable server at %s", c.baseURL).WithCause(err)
	}
	return status, nil
}

// DeleteSession ends the session. Calling it without an active session
// is a no-op.
func (c *Client) DeleteSession() error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(c.sessionPath())
	c.sessionID = ""
	return err
}
