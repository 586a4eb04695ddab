package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"EXPORT_DIR", "LOG_DIR", "LOG_FILE_FORMAT", "LOG_LEVEL", "HTTP_ADDR", "JOURNAL_PATH"} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()
	if cfg.ExportDir != "." || cfg.LogDir != "./logs" || cfg.HTTPAddr != "127.0.0.1:9091" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JournalPath != "" {
		t.Fatalf("journal must be disabled by default")
	}
	if cfg.Level() != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %v", cfg.Level())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXPORT_DIR", "/tmp/out")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("JOURNAL_PATH", "/tmp/j.db")
	cfg := FromEnv()
	if cfg.ExportDir != "/tmp/out" || cfg.JournalPath != "/tmp/j.db" {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if cfg.Level() != zapcore.DebugLevel {
		t.Fatalf("expected debug, got %v", cfg.Level())
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid level error")
	}
	cfg = FromEnv()
	cfg.LogFileFormat = "app.log"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv не перезаписывает уже заданные переменные, поэтому снимаем их
	os.Unsetenv("EXPORT_DIR")
	t.Cleanup(func() { os.Unsetenv("EXPORT_DIR") })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPORT_DIR=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.EnvFileLoaded || cfg.ExportDir != "from-dotenv" {
		t.Fatalf("dotenv not applied: %+v", cfg)
	}
}

func TestLoggerConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")
	lc := FromEnv().LoggerConfig()
	if lc.Directory != "./logs" || lc.FileFormat != "supermarket_%s.log" || lc.Level != zapcore.WarnLevel || lc.ServiceName != ServiceName {
		t.Fatalf("unexpected logger config %+v", lc)
	}
}
