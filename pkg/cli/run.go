package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/qualab-dev/qualab/pkg/config"
	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/harness"
	"github.com/qualab-dev/qualab/pkg/logger"
	"github.com/qualab-dev/qualab/pkg/report"
)

var runFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (defaults to config.yaml in the qualab home)",
		EnvVars: []string{"QUALAB_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "Platform to run on (android, ios)",
		EnvVars: []string{"QUALAB_PLATFORM"},
	},
	&cli.StringFlag{
		Name:    "server-url",
		Usage:   "WebDriver server URL",
		EnvVars: []string{"QUALAB_SERVER_URL"},
	},
	&cli.StringFlag{
		Name:  "suite",
		Usage: "Run only the named suite",
	},
	&cli.StringFlag{
		Name:    "test",
		Aliases: []string{"t"},
		Usage:   "Run a single test (Class.method)",
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Directory for run artifacts and reports",
	},
	&cli.BoolFlag{
		Name:  "slack",
		Usage: "Post the run summary to the configured Slack webhook",
	},
	&cli.BoolFlag{
		Name:  "report-on-fail",
		Usage: "Post to Slack even when the run has failures",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"QUALAB_VERBOSE"},
	},
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Run the configured test suites",
	Flags: runFlags,
	Action: func(c *cli.Context) error {
		return runAction(optionsFrom(c))
	},
}

var validateCommand = &cli.Command{
	Name:  "validate",
	Usage: "Check the configuration without running anything",
	Flags: runFlags,
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(optionsFrom(c))
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		if err := cfg.Validate(); err != nil {
			return cli.Exit(err.Error(), 2)
		}
		fmt.Fprintf(c.App.Writer, "configuration is valid: %d suite(s), platform %s\n",
			len(cfg.Suites), cfg.Platform)
		return nil
	},
}

// runOptions is the flag surface of the run command, kept as a plain
// struct so config resolution is testable without a cli.Context.
type runOptions struct {
	configPath   string
	platform     string
	serverURL    string
	suite        string
	singleTest   string
	output       string
	slack        bool
	reportOnFail bool
	verbose      bool
}

func optionsFrom(c *cli.Context) runOptions {
	return runOptions{
		configPath:   c.String("config"),
		platform:     c.String("platform"),
		serverURL:    c.String("server-url"),
		suite:        c.String("suite"),
		singleTest:   c.String("test"),
		output:       c.String("output"),
		slack:        c.Bool("slack"),
		reportOnFail: c.Bool("report-on-fail"),
		verbose:      c.Bool("verbose"),
	}
}

// loadConfig resolves the effective configuration: the YAML file, then
// the command-line overrides on top.
func loadConfig(opts runOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromDir(config.GetHome())
	}
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts runOptions) error {
	if opts.platform != "" {
		cfg.Platform = opts.platform
	}
	if opts.serverURL != "" {
		cfg.ServerURL = opts.serverURL
	}
	if opts.singleTest != "" {
		cfg.SingleTest = opts.singleTest
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.slack {
		cfg.Slack.Enabled = true
	}
	if opts.reportOnFail {
		cfg.ReportOnFail = true
	}
	if opts.suite != "" {
		return selectSuite(cfg, opts.suite)
	}
	return nil
}

// selectSuite narrows the config to one named suite.
func selectSuite(cfg *config.Config, name string) error {
	for _, suite := range cfg.Suites {
		if suite.Name == name {
			cfg.Suites = []config.Suite{suite}
			return nil
		}
	}
	return core.ErrInvalidConfig.WithMessagef("no suite named %q in the configuration", name)
}

func runAction(opts runOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx := harness.NewRunContext(cfg)
	defer ctx.Close()

	initRunLog(ctx.ID, opts.verbose)
	defer logger.Close()
	logger.Info("%s starting %s run for project %s", ctx.Tag(), cfg.Platform, cfg.ProjectName)

	runner := harness.NewRunner(ctx)
	runner.SetFallback(harness.SmokeCheck)
	totals := runner.Run()
	duration := time.Since(ctx.StartedAt)

	summary := ctx.Summary(totals, duration)
	report.NewConsole(os.Stdout).Print(summary)

	if path, err := report.WriteJSON(ctx.OutputDir(), summary); err != nil {
		logger.Warn("results.json was not written: %v", err)
	} else {
		logger.Info("%s results written to %s", ctx.Tag(), path)
	}

	notifier := report.NewNotifier(cfg.Slack, cfg.ReportOnFail)
	if err := notifier.Notify(summary); err != nil {
		logger.Warn("slack notification failed: %v", err)
	}

	if totals.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d tests failed", totals.Failed, totals.Total), 1)
	}
	return nil
}

// initRunLog routes the harness log to <home>/logs/run-<id>.log,
// falling back to stderr when the directory cannot be created.
func initRunLog(runID string, verbose bool) {
	logger.SetVerbose(verbose)

	logsDir := config.GetLogsDir()
	if err := os.MkdirAll(logsDir, 0o755); err == nil {
		if err := logger.Init(filepath.Join(logsDir, "run-"+runID+".log")); err == nil {
			return
		}
	}
	logger.Init("")
}
