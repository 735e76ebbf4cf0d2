package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points logging at a temporary directory and resets global state
func setupTestDir(t *testing.T, level string) string {
	t.Helper()

	tempDir := t.TempDir()

	origSessionID := sessionID
	origOptions := options
	sessionID = ""
	sessionIDOnce = sync.Once{}

	if err := Configure(Options{Dir: tempDir, Level: level}); err != nil {
		t.Fatalf("Failed to configure logging: %v", err)
	}

	t.Cleanup(func() {
		_ = Shutdown()
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
		options = origOptions
	})
	return tempDir
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(data)
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t, "debug")

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.Component() != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.Component())
	}
	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
	if logger.LogPath() == "" {
		t.Error("Expected non-empty log path")
	}

	logger.Infof("hello %s", "world")
	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}
}

func TestLoggerFormatting(t *testing.T) {
	setupTestDir(t, "debug")

	logger, _ := NewLogger("planner")
	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)
	logger.Close()

	content := readLog(t, logger.LogPath())
	for _, want := range []string{`"DEBUG"`, `"INFO"`, `"WARN"`, `"ERROR"`, `"planner"`, "debug 1", "error 4"} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected log to contain %s, got:\n%s", want, content)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	setupTestDir(t, "warn")

	logger, _ := NewLogger("executor")
	logger.Infof("should be dropped")
	logger.Warnf("should be kept")
	logger.Close()

	content := readLog(t, logger.LogPath())
	if strings.Contains(content, "should be dropped") {
		t.Error("Info entry should be filtered at warn level")
	}
	if !strings.Contains(content, "should be kept") {
		t.Error("Warn entry should be written at warn level")
	}
}

func TestMultipleComponents(t *testing.T) {
	setupTestDir(t, "info")

	a, _ := NewLogger("component-a")
	b, _ := NewLogger("component-b")

	if a.LogPath() != b.LogPath() {
		t.Errorf("Expected shared log file, got %s and %s", a.LogPath(), b.LogPath())
	}

	a.Infof("from a")
	b.Infof("from b")

	content := readLog(t, a.LogPath())
	if !strings.Contains(content, "component-a") || !strings.Contains(content, "component-b") {
		t.Errorf("Expected entries from both components, got:\n%s", content)
	}
}

func TestWithAddsFields(t *testing.T) {
	setupTestDir(t, "info")

	logger := MustLogger("orchestrator").With("task_id", "t-42")
	logger.Infof("stage done")

	content := readLog(t, logger.LogPath())
	if !strings.Contains(content, `"task_id":"t-42"`) {
		t.Errorf("Expected task_id field, got:\n%s", content)
	}
}

func TestConsoleSink(t *testing.T) {
	dir := setupTestDir(t, "info")

	var buf bytes.Buffer
	if err := Configure(Options{Dir: dir, Console: &buf}); err != nil {
		t.Fatalf("Failed to configure: %v", err)
	}

	MustLogger("server").Infof("listening")
	if !strings.Contains(buf.String(), "listening") {
		t.Errorf("Expected console output, got %q", buf.String())
	}
}

func TestFallbackToStderr(t *testing.T) {
	dir := setupTestDir(t, "info")

	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	err := Configure(Options{Dir: filepath.Join(blocker, "logs")})
	if err == nil {
		t.Fatal("Expected error when log dir cannot be created")
	}

	logger, err := NewLogger("fallback")
	if err == nil {
		t.Error("Expected NewLogger to report fallback error")
	}
	if logger == nil {
		t.Fatal("Expected fallback logger")
	}
	if logger.LogPath() != "" {
		t.Errorf("Expected empty log path in fallback mode, got %s", logger.LogPath())
	}
}

func TestGetSessionID(t *testing.T) {
	setupTestDir(t, "info")

	first := GetSessionID()
	second := GetSessionID()
	if first == "" || first != second {
		t.Errorf("Expected stable non-empty session ID, got %q and %q", first, second)
	}
}

func TestLogPathFormat(t *testing.T) {
	dir := setupTestDir(t, "info")

	logger := MustLogger("x")
	want := filepath.Join(dir, GetSessionID()+"-webnav.log")
	if logger.LogPath() != want {
		t.Errorf("Expected %s, got %s", want, logger.LogPath())
	}
}

func TestLoggerClose(t *testing.T) {
	setupTestDir(t, "info")

	logger := MustLogger("closer")
	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infof("ignored")
	l.With("k", "v").Errorf("ignored")
	if l.LogPath() != "" {
		t.Error("Nop logger should have no path")
	}
}
