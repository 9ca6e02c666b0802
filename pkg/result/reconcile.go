package result

import (
	"strings"

	"github.com/qualab-dev/qualab/pkg/logger"
)

// Outcome is one (identity, diagnostic) pair reported by the runner
// after a run: which test failed and why.
type Outcome struct {
	ID         string
	Diagnostic string
}

// Reconciler folds the runner's failure and error lists into a store.
type Reconciler struct {
	store *Store
}

// NewReconciler creates a reconciler over store.
func NewReconciler(store *Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile applies both runner lists. Assertion failures and unexpected
// errors carry the same shape and land the same way: the named record
// goes to failed with the diagnostic attached. Fixture-level identities
// become synthetic records so they never clobber a real test's outcome.
func (r *Reconciler) Reconcile(failures, errors []Outcome) {
	for _, o := range failures {
		r.apply(o)
	}
	for _, o := range errors {
		r.apply(o)
	}
}

func (r *Reconciler) apply(o Outcome) {
	if class, phase, ok := parseFixtureIdentity(o.ID); ok {
		logger.Severe("%s failed for %s, its results are unreliable: %s", phase, class, o.Diagnostic)
		r.store.AddSyntheticFailure(class, phase, o.Diagnostic)
		return
	}

	class, method, ok := ParseIdentity(o.ID)
	if !ok {
		logger.Warn("unparseable outcome identity %q, recording as synthetic failure", o.ID)
		r.store.AddSyntheticFailure("unknown", o.ID, o.Diagnostic)
		return
	}
	r.store.MarkFailed(class, method, o.Diagnostic)
}

// ParseIdentity splits a runner identity of the form Class.method. The
// class part may itself be dotted; the method is everything after the
// last dot.
func ParseIdentity(id string) (class, method string, ok bool) {
	i := strings.LastIndex(id, ".")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

// parseFixtureIdentity recognizes identities like
// "setUpClass (suite.LoginTests)" that name a fixture phase rather than
// a test method.
func parseFixtureIdentity(id string) (class, phase string, ok bool) {
	open := strings.Index(id, " (")
	if open <= 0 || !strings.HasSuffix(id, ")") {
		return "", "", false
	}
	phase = id[:open]
	switch phase {
	case "setUp", "setUpClass", "setUpModule", "tearDown", "tearDownClass", "tearDownModule":
	default:
		return "", "", false
	}
	class = id[open+2 : len(id)-1]
	if class == "" {
		return "", "", false
	}
	return class, phase, true
}
