// Package config handles configuration for qualab.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qualab-dev/qualab/pkg/core"
)

// Defaults applied when the YAML leaves the field unset.
const (
	DefaultFileName    = "config.yaml"
	DefaultProjectName = "qualab/1.0"
	DefaultServerURL   = "http://localhost:4723"
	DefaultOutputDir   = "results"
)

// envServerURL overrides the configured server URL, so CI agents can
// point a checked-in config at their own grid.
const envServerURL = "QUALAB_SERVER_URL"

// Config represents the harness configuration (config.yaml).
type Config struct {
	// Identity used in logs and reports
	ProjectName string `yaml:"projectName"`

	// Target selection
	Platform string `yaml:"platform"` // android, ios
	Browser  string `yaml:"browser"`  // mobile browser to test instead of an app

	// Server settings
	ServerURL    string                            `yaml:"serverUrl"`
	Capabilities map[string]map[string]interface{} `yaml:"capabilities"` // keyed by platform

	// Wait budgets
	Timeouts TimeoutConfig `yaml:"timeouts"`

	// Test selection
	Suites     []Suite `yaml:"suites"`
	SingleTest string  `yaml:"singleTest"` // Class.method, runs just one test

	// Reporting
	Slack        SlackConfig `yaml:"slack"`
	ReportOnFail bool        `yaml:"reportOnFail"` // post to Slack even when something failed
	Output       string      `yaml:"output"`       // run artifact directory

	// Failure evidence
	Artifacts ArtifactsConfig `yaml:"artifacts"`

	// Hook invoked with the run verdict, e.g. to flag a remote job
	JobStatusScript string `yaml:"jobStatusScript"`
}

// ArtifactsConfig controls what gets dumped when a test fails.
type ArtifactsConfig struct {
	Disabled  bool `yaml:"disabled"`  // skip all on-failure dumps
	DeviceLog bool `yaml:"deviceLog"` // also pull the device log (slow on some devices)
}

// TimeoutConfig is the wait-budget section. Zero values defer to the
// finder defaults.
type TimeoutConfig struct {
	Element      Duration `yaml:"element"`
	Interaction  Duration `yaml:"interaction"`
	PollInterval Duration `yaml:"pollInterval"`
	Settle       Duration `yaml:"settle"`
}

// Suite names a group of test classes run together.
type Suite struct {
	Name        string      `yaml:"name"`
	FeatureName string      `yaml:"featureName"`
	Target      string      `yaml:"target"` // defaults to the run platform
	Classes     []TestClass `yaml:"classes"`
}

// TestClass lists the methods of one test class.
type TestClass struct {
	Name    string       `yaml:"name"`
	Methods []TestMethod `yaml:"methods"`
}

// TestMethod is a single runnable test.
type TestMethod struct {
	Name        string   `yaml:"name"`
	TestCaseIDs []string `yaml:"testCaseIds"`
}

// SlackConfig configures posting run summaries to a webhook.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhookUrl"`
	Channel    string `yaml:"channel"`
}

// Duration wraps time.Duration so YAML can say "20s" or "500ms".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return core.ErrInvalidConfig.WithMessagef("invalid duration %q", raw).WithCause(err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithMessagef("parse %s", path).WithCause(err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return defaults
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ProjectName == "" {
		c.ProjectName = DefaultProjectName
	}
	if env := os.Getenv(envServerURL); env != "" {
		c.ServerURL = env
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.Output == "" {
		c.Output = DefaultOutputDir
	}
	for i := range c.Suites {
		if c.Suites[i].Target == "" {
			c.Suites[i].Target = c.Platform
		}
	}
}

// Validate checks the parts every run needs.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Platform) {
	case "android", "ios":
	case "":
		return core.ErrMissingRequired.WithMessage("platform is required (android or ios)")
	default:
		return core.ErrInvalidConfig.WithMessagef("unsupported platform %q", c.Platform)
	}

	if len(c.Suites) == 0 {
		return core.ErrMissingRequired.WithMessage("at least one suite is required")
	}
	for _, suite := range c.Suites {
		if suite.Name == "" {
			return core.ErrInvalidConfig.WithMessage("every suite needs a name")
		}
		if len(suite.Classes) == 0 {
			return core.ErrInvalidConfig.WithMessagef("suite %q has no classes", suite.Name)
		}
		for _, class := range suite.Classes {
			if class.Name == "" {
				return core.ErrInvalidConfig.WithMessagef("suite %q has a class without a name", suite.Name)
			}
			if len(class.Methods) == 0 {
				return core.ErrInvalidConfig.WithMessagef("class %q in suite %q has no methods", class.Name, suite.Name)
			}
			for _, method := range class.Methods {
				if method.Name == "" {
					return core.ErrInvalidConfig.WithMessagef("class %q has a method without a name", class.Name)
				}
			}
		}
	}

	if c.SingleTest != "" && !strings.Contains(c.SingleTest, ".") {
		return core.ErrInvalidConfig.WithMessagef("singleTest %q must be Class.method", c.SingleTest)
	}

	if c.Slack.Enabled && c.Slack.WebhookURL == "" {
		return core.ErrMissingRequired.WithMessage("slack.webhookUrl is required when slack is enabled")
	}
	return nil
}

// CapabilitiesFor returns the session capabilities for a platform:
// the configured map for that platform plus platformName.
func (c *Config) CapabilitiesFor(platform string) map[string]interface{} {
	caps := map[string]interface{}{
		"platformName": platform,
	}
	for k, v := range c.Capabilities[platform] {
		caps[k] = v
	}
	if c.Browser != "" {
		if _, ok := caps["browserName"]; !ok {
			caps["browserName"] = c.Browser
		}
	}
	return caps
}

// RunningOnCI reports whether the harness runs under a CI agent.
func RunningOnCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("JENKINS_URL") != ""
}
