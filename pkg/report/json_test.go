package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteJSON(dir, sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "[a1b2c3]", doc["runId"])
	assert.Equal(t, "android", doc["platform"])
	assert.Equal(t, float64(2), doc["total"])
	assert.Equal(t, "50.0%", doc["passedPercentage"])
	assert.Equal(t, "1m 35s", doc["duration"])

	results, ok := doc["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "LoginTests", first["class"])
	assert.Equal(t, "test_valid_login", first["method"])
	assert.Equal(t, "passed", first["status"])
	assert.Equal(t, "2.3s", first["duration"])

	second := results[1].(map[string]interface{})
	assert.Equal(t, "failed", second["status"])
	assert.Contains(t, second["message"], "id=pay")
	assert.Equal(t, []interface{}{"C101"}, second["testCaseIds"])
}

func TestWriteJSONCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := WriteJSON(dir, passingSummary())
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestWriteJSONEmptyRun(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteJSON(dir, Summary{RunID: "[000000]"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	results, ok := doc["results"].([]interface{})
	require.True(t, ok, "results should marshal as an empty array, not null")
	assert.Empty(t, results)
}
