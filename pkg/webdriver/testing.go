package webdriver

// NewTestClient returns a client pointed at serverURL with a
// pre-assigned session ID, so tests of packages built on the client can
// skip session creation and serve canned responses from an httptest
// server.
func NewTestClient(serverURL, platform, sessionID string) *Client {
	c := NewClient(serverURL, platform)
	c.sessionID = sessionID
	return c
}
