package harness

import (
	"fmt"
	"strings"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/finder"
	"github.com/qualab-dev/qualab/pkg/logger"
	"github.com/qualab-dev/qualab/pkg/result"
	"github.com/qualab-dev/qualab/pkg/webdriver"
)

// Func is one test case body. It reports its verdict through the
// returned error: nil passes the case at teardown, anything else is
// collected for post-run reconciliation.
type Func func(c *Case) error

// Case is the handle a test body works with: its identity plus lazy
// access to the session, finder and interactor bound to this case.
type Case struct {
	Class  string
	Method string

	ctx        *RunContext
	client     *webdriver.Client
	finder     *finder.Finder
	interactor *finder.Interactor
}

// Identity returns the Class.method form outcomes are reported by.
func (c *Case) Identity() string {
	return c.Class + "." + c.Method
}

// Session returns the case's driver session, creating it on first use.
// The session belongs to this case alone and is quit at teardown.
func (c *Case) Session() (*webdriver.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	client, err := c.ctx.Session(c.Identity())
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

// Finder returns a finder over the case's session.
func (c *Case) Finder() (*finder.Finder, error) {
	if c.finder != nil {
		return c.finder, nil
	}
	client, err := c.Session()
	if err != nil {
		return nil, err
	}
	c.finder = c.ctx.Finder(client)
	return c.finder, nil
}

// Interactor returns an interactor over the case's session.
func (c *Case) Interactor() (*finder.Interactor, error) {
	if c.interactor != nil {
		return c.interactor, nil
	}
	f, err := c.Finder()
	if err != nil {
		return nil, err
	}
	c.interactor = finder.NewInteractor(f)
	return c.interactor, nil
}

// Runner walks the configured suites, runs each selected method's body,
// and reconciles the collected outcomes into the run's store.
type Runner struct {
	ctx      *RunContext
	cases    map[string]Func
	fallback Func

	failures []result.Outcome
	errors   []result.Outcome
}

// NewRunner creates a runner over ctx with no bodies registered.
func NewRunner(ctx *RunContext) *Runner {
	return &Runner{ctx: ctx, cases: make(map[string]Func)}
}

// Register binds a body to a Class.method identity.
func (r *Runner) Register(identity string, fn Func) {
	r.cases[identity] = fn
}

// SetFallback sets the body used for configured methods that have no
// registered implementation.
func (r *Runner) SetFallback(fn Func) {
	r.fallback = fn
}

// Run executes every selected case in suite order, then reconciles the
// collected failure and error outcomes into the store and returns the
// run totals.
func (r *Runner) Run() result.Totals {
	cfg := r.ctx.Config
	for _, suite := range cfg.Suites {
		logger.Info("%s starting suite %s", r.ctx.Tag(), suite.Name)
		for _, class := range suite.Classes {
			for _, method := range class.Methods {
				if !r.selected(class.Name, method.Name) {
					continue
				}
				r.ctx.Store.Register(class.Name, method.Name, result.Meta{
					TestCaseIDs: method.TestCaseIDs,
					FeatureName: suite.FeatureName,
					Target:      suite.Target,
				})
				r.runCase(class.Name, method.Name)
			}
		}
	}

	result.NewReconciler(r.ctx.Store).Reconcile(r.failures, r.errors)
	return result.ComputeTotals(r.ctx.Store)
}

func (r *Runner) selected(class, method string) bool {
	single := r.ctx.Config.SingleTest
	return single == "" || single == class+"."+method
}

func (r *Runner) runCase(class, method string) {
	identity := class + "." + method
	c := &Case{Class: class, Method: method, ctx: r.ctx}
	logger.Info("%s running %s", r.ctx.Tag(), identity)

	var caseErr error
	if fn := r.body(identity); fn != nil {
		caseErr = runBody(fn, c)
	} else {
		caseErr = core.ErrUnsupportedOperation.WithMessagef("no test body registered for %s", identity)
	}
	r.finish(c, caseErr)
}

func (r *Runner) body(identity string) Func {
	if fn, ok := r.cases[identity]; ok {
		return fn
	}
	return r.fallback
}

// runBody converts a panic in the test body into an ordinary error so
// one bad case cannot take down the run.
func runBody(fn Func, c *Case) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(c)
}

// finish is case teardown. It always runs: stamp the timing, settle the
// inline pass, collect evidence and the outcome on failure, and release
// the case's session.
func (r *Runner) finish(c *Case, caseErr error) {
	identity := c.Identity()
	r.ctx.Store.FinishTiming(c.Class, c.Method)

	if caseErr == nil {
		r.ctx.Store.MarkPassed(c.Class, c.Method)
	} else {
		logger.Error("%s %s failed: %v", r.ctx.Tag(), identity, caseErr)
		if c.client != nil && r.ctx.Dumper != nil {
			r.ctx.Dumper.DumpFailure(identity, c.client)
		}
		r.collect(c, caseErr)
	}

	r.postJobStatus(c, caseErr == nil)

	if err := r.ctx.CloseSession(identity); err != nil {
		logger.Warn("%s could not quit session for %s: %v", r.ctx.Tag(), identity, err)
	}
}

// collect routes a case error into the failure or error list, the same
// split the reconciler consumes. Timeouts and missed elements are
// failures of the thing under test; everything else is a harness-side
// error. A setup failure is reported under a fixture identity because
// the test itself never ran.
func (r *Runner) collect(c *Case, caseErr error) {
	o := result.Outcome{ID: c.Identity(), Diagnostic: caseErr.Error()}
	switch {
	case core.IsSetupFailure(caseErr):
		o.ID = fmt.Sprintf("setUp (%s)", c.Class)
		r.errors = append(r.errors, o)
	case core.IsTimeout(caseErr) || core.IsNotFound(caseErr):
		r.failures = append(r.failures, o)
	default:
		r.errors = append(r.errors, o)
	}
}

// postJobStatus reports the case verdict to the remote session when the
// config names a status script, so grid dashboards show per-test
// results. Rejections are logged and never affect the verdict.
func (r *Runner) postJobStatus(c *Case, passed bool) {
	script := r.ctx.Config.JobStatusScript
	if script == "" || c.client == nil {
		return
	}
	name := fmt.Sprintf("%s - %s", r.ctx.Tag(), c.Identity())
	_, err := c.client.ExecuteScript(script, []interface{}{
		map[string]interface{}{"name": name, "passed": passed},
	})
	if err != nil {
		logger.Warn("job status for %s was not accepted: %v", c.Identity(), err)
	}
}

// SmokeCheck is the fallback body the CLI installs for configured
// methods without a registered implementation: open the session and
// verify the UI tree is readable.
func SmokeCheck(c *Case) error {
	client, err := c.Session()
	if err != nil {
		return err
	}
	source, err := client.PageSource()
	if err != nil {
		return err
	}
	if strings.TrimSpace(source) == "" {
		return core.ErrConditionNotMet.WithMessage("page source is empty")
	}
	return nil
}
