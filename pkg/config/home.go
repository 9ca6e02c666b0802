package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "QUALAB_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the qualab home directory.
//
// Resolution order:
//  1. $QUALAB_HOME environment variable
//  2. Parent of the binary's directory (if binary is in <home>/bin/)
//  3. Current working directory (development fallback)
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetLogsDir returns <home>/logs.
func GetLogsDir() string {
	return filepath.Join(GetHome(), "logs")
}

// ResolveOutputDir anchors a relative output directory at the home
// directory. Absolute paths pass through unchanged.
func ResolveOutputDir(output string) string {
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(GetHome(), output)
}

func resolveHome() string {
	// 1. Environment variable
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	// 2. Binary-relative: if binary is at <home>/bin/qualab, use <home>
	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		binDir := filepath.Dir(execPath)
		if filepath.Base(binDir) == "bin" {
			return filepath.Dir(binDir)
		}
	}

	// 3. Current working directory
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
