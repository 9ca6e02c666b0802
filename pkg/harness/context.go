// Package harness owns the run lifecycle. A RunContext is created at
// session start and threaded through everything that used to live in
// global state: configuration, driver sessions, the result store and
// the run identity. Repeated runs in one process get fresh contexts and
// cannot contaminate each other.
package harness

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qualab-dev/qualab/pkg/artifacts"
	"github.com/qualab-dev/qualab/pkg/config"
	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/finder"
	"github.com/qualab-dev/qualab/pkg/logger"
	"github.com/qualab-dev/qualab/pkg/report"
	"github.com/qualab-dev/qualab/pkg/result"
	"github.com/qualab-dev/qualab/pkg/webdriver"
)

// RunContext is the explicit state of one suite execution.
type RunContext struct {
	ID        string
	Config    *config.Config
	Store     *result.Store
	Dumper    *artifacts.Dumper
	StartedAt time.Time

	sessions map[string]*webdriver.Client
}

// NewRunID returns a short random tag identifying one run, six hex
// characters from a UUID.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// NewRunContext creates the context for one run. The artifact dumper is
// nil when dumps are disabled in the config.
func NewRunContext(cfg *config.Config) *RunContext {
	rc := &RunContext{
		ID:        NewRunID(),
		Config:    cfg,
		Store:     result.NewStore(),
		StartedAt: time.Now(),
		sessions:  make(map[string]*webdriver.Client),
	}
	if !cfg.Artifacts.Disabled {
		rc.Dumper = artifacts.NewDumper(rc.OutputDir(), rc.ID, cfg.Artifacts.DeviceLog)
	}
	return rc
}

// Tag returns the bracketed run tag used in logs and report headers.
func (rc *RunContext) Tag() string {
	return "[" + rc.ID + "]"
}

// OutputDir returns where this run's artifacts and reports land.
func (rc *RunContext) OutputDir() string {
	return config.ResolveOutputDir(rc.Config.Output)
}

// Session returns the named driver session, creating it on first use.
// A session belongs to whoever named it, for that owner's lifetime;
// creation failure is a setup failure because the test that needed the
// session cannot run.
func (rc *RunContext) Session(name string) (*webdriver.Client, error) {
	if client, ok := rc.sessions[name]; ok {
		return client, nil
	}

	platform := strings.ToLower(rc.Config.Platform)
	client := webdriver.NewClient(rc.Config.ServerURL, platform)
	if err := client.CreateSession(rc.Config.CapabilitiesFor(platform)); err != nil {
		return nil, core.ErrSetupFailure.WithMessagef("could not create a session for %s", name).WithCause(err)
	}
	logger.Info("%s session %s created for %s", rc.Tag(), client.SessionID(), name)
	rc.sessions[name] = client
	return client, nil
}

// CloseSession quits the named session. Unknown names are a no-op.
func (rc *RunContext) CloseSession(name string) error {
	client, ok := rc.sessions[name]
	if !ok {
		return nil
	}
	delete(rc.sessions, name)
	return client.DeleteSession()
}

// Finder builds a finder over src with the run's configured wait
// budgets. Zero config values fall back to the finder defaults.
func (rc *RunContext) Finder(src core.QuerySource) *finder.Finder {
	t := rc.Config.Timeouts
	return finder.New(src, finder.Timeouts{
		Element:      t.Element.Std(),
		Interaction:  t.Interaction.Std(),
		PollInterval: t.PollInterval.Std(),
		Settle:       t.Settle.Std(),
	})
}

// Close quits every session still open and reports the collected
// failures. The context is not reusable afterwards.
func (rc *RunContext) Close() error {
	var errs []error
	for _, name := range rc.sessionNames() {
		if err := rc.CloseSession(name); err != nil {
			errs = append(errs, fmt.Errorf("close session %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (rc *RunContext) sessionNames() []string {
	names := make([]string, 0, len(rc.sessions))
	for name := range rc.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary assembles the view the reporters consume.
func (rc *RunContext) Summary(totals result.Totals, duration time.Duration) report.Summary {
	return report.Summary{
		RunID:    rc.Tag(),
		Project:  rc.Config.ProjectName,
		Platform: strings.ToLower(rc.Config.Platform),
		Duration: duration,
		Totals:   totals,
		Records:  rc.Store.Records(),
		BuildURL: os.Getenv("BUILD_URL"),
	}
}
