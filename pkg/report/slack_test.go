package report

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualab-dev/qualab/pkg/config"
)

// webhookRecorder captures webhook posts for inspection.
type webhookRecorder struct {
	calls int
	body  string
}

func newWebhookServer(rec *webhookRecorder, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.calls++
		data, _ := io.ReadAll(r.Body)
		rec.body = string(data)
		w.WriteHeader(status)
	}))
}

func TestNotifyPostsWebhook(t *testing.T) {
	rec := &webhookRecorder{}
	server := newWebhookServer(rec, http.StatusOK)
	defer server.Close()

	n := NewNotifier(config.SlackConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Channel:    "#qa",
	}, false)

	require.NoError(t, n.Notify(passingSummary()))
	require.Equal(t, 1, rec.calls)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.body), &payload))
	assert.Equal(t, "#qa", payload["channel"])
	assert.Equal(t, "qualab", payload["username"])
	assert.Contains(t, payload["text"], "2/2 passed")

	blocks, ok := payload["blocks"].([]interface{})
	require.True(t, ok, "expected a blocks array")
	require.NotEmpty(t, blocks)
	header := blocks[0].(map[string]interface{})
	assert.Equal(t, "header", header["type"])
	assert.Contains(t, rec.body, "[a1b2c3]")
	assert.Contains(t, rec.body, ":android:")
	assert.Contains(t, rec.body, "100.0%")
}

func TestNotifySkipsFailedRun(t *testing.T) {
	rec := &webhookRecorder{}
	server := newWebhookServer(rec, http.StatusOK)
	defer server.Close()

	n := NewNotifier(config.SlackConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Channel:    "#qa",
	}, false)

	require.NoError(t, n.Notify(sampleSummary()))
	assert.Equal(t, 0, rec.calls, "failed runs must not post without reportOnFail")
}

func TestNotifyReportOnFailForcesPost(t *testing.T) {
	rec := &webhookRecorder{}
	server := newWebhookServer(rec, http.StatusOK)
	defer server.Close()

	n := NewNotifier(config.SlackConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Channel:    "#qa",
	}, true)

	require.NoError(t, n.Notify(sampleSummary()))
	require.Equal(t, 1, rec.calls)
	assert.Contains(t, rec.body, ":x:", "failure section should name the failed count")
}

func TestNotifyDisabled(t *testing.T) {
	rec := &webhookRecorder{}
	server := newWebhookServer(rec, http.StatusOK)
	defer server.Close()

	n := NewNotifier(config.SlackConfig{
		Enabled:    false,
		WebhookURL: server.URL,
	}, false)

	require.NoError(t, n.Notify(passingSummary()))
	assert.Equal(t, 0, rec.calls)
}

func TestNotifyWebhookError(t *testing.T) {
	rec := &webhookRecorder{}
	server := newWebhookServer(rec, http.StatusInternalServerError)
	defer server.Close()

	n := NewNotifier(config.SlackConfig{
		Enabled:    true,
		WebhookURL: server.URL,
	}, false)

	err := n.Notify(passingSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post slack webhook")
}

func TestBuildMessageIncludesBuildLink(t *testing.T) {
	n := NewNotifier(config.SlackConfig{Enabled: true, Channel: "#qa"}, false)
	s := passingSummary()
	s.BuildURL = "https://ci.example.com/job/42"

	msg := n.buildMessage(s)

	var button *slack.ButtonBlockElement
	for _, block := range msg.Blocks.BlockSet {
		action, ok := block.(*slack.ActionBlock)
		if !ok {
			continue
		}
		require.NotEmpty(t, action.Elements.ElementSet)
		button, _ = action.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	}
	require.NotNil(t, button, "expected an action block with a build button")
	assert.Equal(t, "https://ci.example.com/job/42", button.URL)
}

func TestBuildMessageOmitsBuildLinkOutsideCI(t *testing.T) {
	n := NewNotifier(config.SlackConfig{Enabled: true}, false)

	msg := n.buildMessage(passingSummary())
	for _, block := range msg.Blocks.BlockSet {
		_, ok := block.(*slack.ActionBlock)
		assert.False(t, ok, "no action block expected without a build URL")
	}
}

func TestPlatformEmoji(t *testing.T) {
	assert.Equal(t, ":android:", platformEmoji("android"))
	assert.Equal(t, ":apple:", platformEmoji("ios"))
	assert.Equal(t, "web", platformEmoji("web"))
}
