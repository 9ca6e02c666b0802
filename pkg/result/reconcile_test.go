package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualab-dev/qualab/pkg/core"
)

func TestReconcile_MarksReportedFailures(t *testing.T) {
	store := NewStore()
	store.Register("LoginTests", "test_valid_login", Meta{})
	store.Register("LoginTests", "test_locked_account", Meta{})
	store.MarkPassed("LoginTests", "test_valid_login")

	NewReconciler(store).Reconcile(
		[]Outcome{{ID: "LoginTests.test_locked_account", Diagnostic: "lockout banner missing"}},
		nil,
	)

	failed, _ := store.Get("LoginTests", "test_locked_account")
	assert.Equal(t, core.StatusFailed, failed.Status)
	assert.Equal(t, "lockout banner missing", failed.Message)

	passed, _ := store.Get("LoginTests", "test_valid_login")
	assert.Equal(t, core.StatusPassed, passed.Status, "other records must be untouched")
}

func TestReconcile_AppliesBothLists(t *testing.T) {
	store := NewStore()
	store.Register("CartTests", "test_add_item", Meta{})
	store.Register("CartTests", "test_remove_item", Meta{})

	NewReconciler(store).Reconcile(
		[]Outcome{{ID: "CartTests.test_add_item", Diagnostic: "count assertion failed"}},
		[]Outcome{{ID: "CartTests.test_remove_item", Diagnostic: "session dropped"}},
	)

	add, _ := store.Get("CartTests", "test_add_item")
	remove, _ := store.Get("CartTests", "test_remove_item")
	assert.Equal(t, core.StatusFailed, add.Status)
	assert.Equal(t, core.StatusFailed, remove.Status)
	assert.Equal(t, "session dropped", remove.Message)
}

func TestReconcile_FixtureFailureBecomesSyntheticRecord(t *testing.T) {
	store := NewStore()
	store.Register("suite.LoginTests", "test_valid_login", Meta{})

	NewReconciler(store).Reconcile(nil, []Outcome{
		{ID: "setUpClass (suite.LoginTests)", Diagnostic: "driver session could not be created"},
	})

	synthetic, ok := store.Get("suite.LoginTests", "setUpClass")
	require.True(t, ok, "fixture failures must be recorded")
	assert.True(t, synthetic.Synthetic)
	assert.Equal(t, core.StatusFailed, synthetic.Status)
	assert.Equal(t, "driver session could not be created", synthetic.Message)

	real, _ := store.Get("suite.LoginTests", "test_valid_login")
	assert.Equal(t, core.StatusUntested, real.Status, "fixture failures must not clobber real records")
}

func TestReconcile_UnparseableIdentity(t *testing.T) {
	store := NewStore()

	NewReconciler(store).Reconcile([]Outcome{{ID: "garbage", Diagnostic: "who knows"}}, nil)

	rec, ok := store.Get("unknown", "garbage")
	require.True(t, ok)
	assert.True(t, rec.Synthetic)
	assert.Equal(t, core.StatusFailed, rec.Status)
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		id     string
		class  string
		method string
		ok     bool
	}{
		{"LoginTests.test_ok", "LoginTests", "test_ok", true},
		{"tests.login.LoginTests.test_ok", "tests.login.LoginTests", "test_ok", true},
		{"nodot", "", "", false},
		{".leading", "", "", false},
		{"trailing.", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		class, method, ok := ParseIdentity(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.class, class, tt.id)
		assert.Equal(t, tt.method, method, tt.id)
	}
}

func TestParseFixtureIdentity(t *testing.T) {
	tests := []struct {
		id    string
		class string
		phase string
		ok    bool
	}{
		{"setUpClass (suite.LoginTests)", "suite.LoginTests", "setUpClass", true},
		{"setUp (CartTests)", "CartTests", "setUp", true},
		{"tearDownClass (CartTests)", "CartTests", "tearDownClass", true},
		{"test_ok (CartTests)", "", "", false},
		{"setUpClass", "", "", false},
		{"setUpClass ()", "", "", false},
		{"LoginTests.test_ok", "", "", false},
	}

	for _, tt := range tests {
		class, phase, ok := parseFixtureIdentity(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.class, class, tt.id)
		assert.Equal(t, tt.phase, phase, tt.id)
	}
}
