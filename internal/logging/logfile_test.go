package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogFilename(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{
			name: "utc",
			time: time.Date(2024, 3, 15, 14, 30, 45, 123_000_000, time.UTC),
			want: "tfcsync-20240315-143045-123.log",
		},
		{
			name: "converted to utc",
			time: time.Date(2024, 1, 1, 9, 0, 0, 5_000_000, time.FixedZone("JST", 9*3600)),
			want: "tfcsync-20240101-000000-005.log",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logFilename(tt.time)
			if got != tt.want {
				t.Fatalf("logFilename() = %q, want %q", got, tt.want)
			}
			back, ok := logFileTime(got)
			if !ok || !back.Equal(tt.time) {
				t.Errorf("logFileTime(%q) = %v, %v; want %v", got, back, ok, tt.time)
			}
		})
	}
}

func TestLogFileTime_Rejects(t *testing.T) {
	for _, name := range []string{
		"other.log",
		"tfcsync.log",
		"tfcsync-20240315-143045-123.txt",
		"tfcsync-20240315-143045.log",
		"tfcsync-20241315-143045-123.log",
		"tfcsync-20240315-143045-abc.log",
		"other-20240315-143045-123.log",
	} {
		if _, ok := logFileTime(name); ok {
			t.Errorf("logFileTime(%q) accepted", name)
		}
	}
}

func TestOpenLogFile(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "abs.log")

	tests := []struct {
		name     string
		output   string
		wantPath string
		wantAuto bool
		stderr   bool
	}{
		{name: "none", output: "none"},
		{name: "none upper case", output: "NONE"},
		{name: "stderr", output: "-", stderr: true},
		{name: "auto named", output: "", wantPath: filepath.Join(dir, "tfcsync-20240315-143045-000.log"), wantAuto: true},
		{name: "absolute", output: abs, wantPath: abs},
		{name: "relative to dir", output: filepath.Join("sub", "run.log"), wantPath: filepath.Join(dir, "sub", "run.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf, err := openLogFile(&LogConfig{Output: tt.output, Dir: dir}, now)
			if err != nil {
				t.Fatalf("openLogFile() error = %v", err)
			}
			defer lf.Close()
			if lf.Path != tt.wantPath || lf.Auto != tt.wantAuto {
				t.Errorf("Path, Auto = %q, %v; want %q, %v", lf.Path, lf.Auto, tt.wantPath, tt.wantAuto)
			}
			if tt.stderr && lf.Writer() != os.Stderr {
				t.Error("Writer() should be os.Stderr")
			}
			if tt.wantPath != "" {
				if _, err := os.Stat(tt.wantPath); err != nil {
					t.Errorf("log file not created: %v", err)
				}
			}
			if err := lf.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
			if err := lf.Close(); err != nil {
				t.Errorf("second Close() error = %v", err)
			}
		})
	}
}

func TestPruneLogFiles(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	files := []struct {
		name string
		kept bool
	}{
		{name: logFilename(now.AddDate(0, 0, -30)), kept: false},
		{name: logFilename(now.AddDate(0, 0, -8)), kept: false},
		{name: logFilename(now.AddDate(0, 0, -7).Add(time.Minute)), kept: true},
		{name: logFilename(now.Add(-time.Hour)), kept: true},
		{name: "notes.log", kept: true},
		{name: "tfcsync-garbage.log", kept: true},
		{name: "other-20200101-000000-000.log", kept: true},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, logFilename(now.AddDate(-1, 0, 0))), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := pruneLogFiles(dir, 7, now)
	if err != nil {
		t.Fatalf("pruneLogFiles() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	for _, f := range files {
		_, err := os.Stat(filepath.Join(dir, f.name))
		if f.kept && err != nil {
			t.Errorf("%s should be kept: %v", f.name, err)
		}
		if !f.kept && !os.IsNotExist(err) {
			t.Errorf("%s should be removed", f.name)
		}
	}
}

func TestPruneLogFiles_NoOp(t *testing.T) {
	if n, err := pruneLogFiles(filepath.Join(t.TempDir(), "missing"), 7, time.Now()); n != 0 || err != nil {
		t.Errorf("missing dir: removed=%d err=%v", n, err)
	}

	dir := t.TempDir()
	old := filepath.Join(dir, logFilename(time.Now().AddDate(-1, 0, 0)))
	if err := os.WriteFile(old, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if n, err := pruneLogFiles(dir, 0, time.Now()); n != 0 || err != nil {
		t.Errorf("zero retention: removed=%d err=%v", n, err)
	}
	if _, err := os.Stat(old); err != nil {
		t.Error("zero retention must keep every file")
	}
}

func TestOpen(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("auto file written and expired files pruned", func(t *testing.T) {
		dir := t.TempDir()
		expired := filepath.Join(dir, logFilename(now.AddDate(0, 0, -30)))
		if err := os.WriteFile(expired, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		l, lf, err := open(&LogConfig{Format: "human", Level: "warn", Dir: dir, RetentionDays: 7}, now)
		if err != nil {
			t.Fatalf("open() error = %v", err)
		}
		ctx := context.Background()
		l.Info(ctx, "filtered")
		l.Warnf(ctx, "Failed to parse state file for workspace: %s", "prod")
		if err := lf.Close(); err != nil {
			t.Fatal(err)
		}

		if !lf.Auto || filepath.Base(lf.Path) != "tfcsync-20240315-120000-000.log" {
			t.Errorf("LogFile = %+v", lf)
		}
		b, err := os.ReadFile(lf.Path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(b), "filtered") || !strings.Contains(string(b), "WARN  Failed to parse state file for workspace: prod") {
			t.Errorf("log file content = %q", b)
		}
		if _, err := os.Stat(expired); !os.IsNotExist(err) {
			t.Error("expired log file should have been pruned")
		}
	})

	t.Run("bad settings create no file", func(t *testing.T) {
		dir := t.TempDir()
		if _, _, err := open(&LogConfig{Level: "bogus", Dir: dir}, now); err == nil {
			t.Error("open() should reject an unknown level")
		}
		if _, _, err := open(&LogConfig{Format: "xml", Dir: dir}, now); err == nil {
			t.Error("open() should reject an unknown format")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("dir has %d entries, want 0", len(entries))
		}
	})
}
