// Package artifacts saves failure evidence: page source, screenshot
// and device log dumped per failed test.
package artifacts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/qualab-dev/qualab/pkg/logger"
)

// Source is what a dump needs from the driver.
type Source interface {
	PageSource() (string, error)
	Screenshot() ([]byte, error)
}

// LogSource is implemented by drivers that can pull the device log.
type LogSource interface {
	DeviceLog() ([]string, error)
}

// Dumper writes failure evidence under <output>/<runID>/.
type Dumper struct {
	root      string
	deviceLog bool
}

// NewDumper creates a dumper for one run. deviceLog additionally pulls
// the device-side log, which can be slow on real hardware.
func NewDumper(outputDir, runID string, deviceLog bool) *Dumper {
	return &Dumper{
		root:      filepath.Join(outputDir, runID),
		deviceLog: deviceLog,
	}
}

// Root returns the run's artifact directory.
func (d *Dumper) Root() string {
	return d.root
}

// DumpFailure writes page_source.xml, screenshot.png and optionally
// device.log for one failed test. Dump problems are logged and never
// fail the run; the returned path is empty when no directory could be
// created.
func (d *Dumper) DumpFailure(identity string, src Source) string {
	dir := filepath.Join(d.root, sanitize(identity))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("could not create artifact directory %s: %v", dir, err)
		return ""
	}

	if source, err := src.PageSource(); err != nil {
		logger.Warn("page source dump failed for %s: %v", identity, err)
	} else {
		d.write(filepath.Join(dir, "page_source.xml"), []byte(source))
	}

	if shot, err := src.Screenshot(); err != nil {
		logger.Warn("screenshot dump failed for %s: %v", identity, err)
	} else {
		d.write(filepath.Join(dir, "screenshot.png"), shot)
	}

	if logs, ok := src.(LogSource); ok && d.deviceLog {
		if lines, err := logs.DeviceLog(); err != nil {
			logger.Warn("device log dump failed for %s: %v", identity, err)
		} else {
			d.write(filepath.Join(dir, "device.log"), []byte(strings.Join(lines, "\n")))
		}
	}

	logger.Debug("failure artifacts for %s saved to %s", identity, dir)
	return dir
}

func (d *Dumper) write(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("could not write artifact %s: %v", path, err)
	}
}

// sanitize keeps identities filesystem-safe.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
