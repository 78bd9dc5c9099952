package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LogConfig holds configuration for structured log output.
type LogConfig struct {
	Format        string // "human" (default), "text" or "json"
	Level         string // "DEBUG", "INFO" (default), "WARN", "ERROR"
	Output        string // Path, "-" for stderr, "none" to disable, "" for an auto-named file in Dir
	Dir           string // Log directory for auto-named and relative outputs
	RetentionDays int    // Days to retain auto-named log files (0 keeps everything)
}

// LogFile is the destination selected by LogConfig.Output.
type LogFile struct {
	Path string // Empty for stderr and "none"
	Auto bool   // Path was generated from the start time
	file *os.File
	w    io.Writer
}

// Writer returns the io.Writer for log output.
func (lf *LogFile) Writer() io.Writer { return lf.w }

// Close closes the log file if one was opened. It is safe to call more than once.
func (lf *LogFile) Close() error {
	if lf == nil || lf.file == nil {
		return nil
	}
	err := lf.file.Close()
	lf.file = nil
	return err
}

const (
	logFilePrefix = "tfcsync-"
	logFileSuffix = ".log"
	logFileStamp  = "20060102-150405"
)

// logFilename names an auto-created log file after its start time in UTC:
// tfcsync-YYYYMMDD-HHMMSS-mmm.log
func logFilename(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%s-%03d%s", logFilePrefix, t.Format(logFileStamp), t.Nanosecond()/int(time.Millisecond), logFileSuffix)
}

// logFileTime recovers the start time encoded by logFilename.
func logFileTime(name string) (time.Time, bool) {
	s, ok := strings.CutPrefix(name, logFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	s, ok = strings.CutSuffix(s, logFileSuffix)
	n := len(logFileStamp)
	if !ok || len(s) != n+4 || s[n] != '-' {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(logFileStamp, s[:n], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	ms, err := strconv.Atoi(s[n+1:])
	if err != nil || ms < 0 {
		return time.Time{}, false
	}
	return t.Add(time.Duration(ms) * time.Millisecond), true
}

func openLogFile(cfg *LogConfig, now time.Time) (*LogFile, error) {
	switch strings.ToLower(cfg.Output) {
	case "none":
		return &LogFile{w: io.Discard}, nil
	case "-":
		return &LogFile{w: os.Stderr}, nil
	}

	lf := &LogFile{}
	switch {
	case cfg.Output == "":
		lf.Path = filepath.Join(cfg.Dir, logFilename(now))
		lf.Auto = true
	case filepath.IsAbs(cfg.Output):
		lf.Path = cfg.Output
	default:
		lf.Path = filepath.Join(cfg.Dir, cfg.Output)
	}

	dir := filepath.Dir(lf.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	f, err := os.OpenFile(lf.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", lf.Path, err)
	}
	lf.file, lf.w = f, f
	return lf, nil
}

// pruneLogFiles removes auto-named log files in dir whose encoded start time
// is more than retentionDays before now, and reports how many it removed.
// Files with other names are never touched.
func pruneLogFiles(dir string, retentionDays int, now time.Time) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		started, ok := logFileTime(e.Name())
		if !ok || !started.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Open resolves cfg into a Logger and the LogFile backing it, then prunes
// expired auto-named files next to the log file. The caller closes the LogFile.
func Open(cfg *LogConfig) (Logger, *LogFile, error) {
	return open(cfg, time.Now())
}

func open(cfg *LogConfig, now time.Time) (Logger, *LogFile, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	// Reject a bad format before creating any file.
	if _, err := newHandler(cfg.Format, level, io.Discard); err != nil {
		return nil, nil, err
	}
	lf, err := openLogFile(cfg, now)
	if err != nil {
		return nil, nil, err
	}
	l, err := NewWithWriter(cfg.Format, level, lf.Writer())
	if err != nil {
		_ = lf.Close()
		return nil, nil, err
	}
	if lf.Path != "" {
		if _, err := pruneLogFiles(filepath.Dir(lf.Path), cfg.RetentionDays, now); err != nil {
			l.Warn(context.Background(), "pruning old log files failed", "err", err)
		}
	}
	return l, lf, nil
}
