// Package cli provides the command-line interface for qualab.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "qualab",
		Usage:   "UI test harness for mobile apps over a WebDriver server",
		Version: Version,
		Description: `qualab runs the test suites defined in config.yaml against an
Appium-compatible server and reports per-test results.

Examples:
  qualab run --platform android
  qualab run --platform ios --test LoginTests.test_valid_login
  qualab validate --config config.yaml`,
		Commands: []*cli.Command{
			runCommand,
			validateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
