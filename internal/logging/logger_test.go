package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestInitWritesJSONL(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{LogDir: dir})
	defer Shutdown()

	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger after Init")
	}

	l.Info("test_message", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		t.Fatal("no log lines")
	}
	var record map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		t.Fatalf("failed to parse JSONL: %v (line: %s)", err, scanner.Text())
	}

	if record["msg"] != "test_message" {
		t.Errorf("expected msg=test_message, got %v", record["msg"])
	}
	if record["key"] != "value" {
		t.Errorf("expected key=value, got %v", record["key"])
	}
}

func TestInitWithoutLogDirDiscards(t *testing.T) {
	Shutdown()

	Init(Config{})
	defer Shutdown()

	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger even without a log dir")
	}

	// Should not panic
	l.Info("this goes nowhere")
}

func TestForComponentUsesHandlerInstalledLater(t *testing.T) {
	Shutdown()

	// Component logger created BEFORE Init, as package-level vars do.
	compLog := ForComponent(CompRender)

	dir := t.TempDir()
	Init(Config{LogDir: dir})
	defer Shutdown()

	compLog.Info("late_bound")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var record map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		t.Fatal("no log lines")
	}
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		t.Fatalf("failed to parse JSONL: %v", err)
	}
	if record["component"] != CompRender {
		t.Errorf("expected component=%s, got %v", CompRender, record["component"])
	}
	if record["msg"] != "late_bound" {
		t.Errorf("expected msg=late_bound, got %v", record["msg"])
	}
}

func TestLoggerBeforeInit(t *testing.T) {
	Shutdown()

	if Logger() == nil {
		t.Fatal("Logger() should never return nil")
	}
}
