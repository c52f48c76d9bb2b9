package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "amlops-"
	logFileSuffix = ".log"
)

// LogFile is the destination of structured log output.
type LogFile struct {
	Path   string // empty unless writing to a file
	file   *os.File
	writer io.Writer
}

// OpenLogFile resolves output into a writer.
//
//   - "" or "-": os.Stderr
//   - "none": io.Discard
//   - "auto": a timestamped file in dir
//   - anything else: that path, relative paths resolved against dir
func OpenLogFile(output, dir string) (*LogFile, error) {
	lf := &LogFile{}
	switch strings.ToLower(output) {
	case "", "-":
		lf.writer = os.Stderr
		return lf, nil
	case "none":
		lf.writer = io.Discard
		return lf, nil
	case "auto":
		lf.Path = filepath.Join(dir, GenerateLogFilename(time.Now().UTC()))
	default:
		if filepath.IsAbs(output) || dir == "" {
			lf.Path = output
		} else {
			lf.Path = filepath.Join(dir, output)
		}
	}

	if err := os.MkdirAll(filepath.Dir(lf.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(lf.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", lf.Path, err)
	}
	lf.file = f
	lf.writer = f
	return lf, nil
}

// Writer returns the log destination.
func (lf *LogFile) Writer() io.Writer { return lf.writer }

// Close closes the underlying file, if any.
func (lf *LogFile) Close() error {
	if lf.file != nil {
		return lf.file.Close()
	}
	return nil
}

// GenerateLogFilename returns amlops-YYYYMMDD-HHMMSS-mmm.log for t.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s", logFilePrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000, logFileSuffix)
}

// CleanupOldLogFiles removes amlops-*.log files in dir older than retentionDays.
// Removal failures are ignored.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
	return nil
}
