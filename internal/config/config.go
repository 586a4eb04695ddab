package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"supermarket/internal/logger"
)

const (
	ServiceName = "supermarket"

	defaultExportDir     = "."
	defaultLogDir        = "./logs"
	defaultLogFileFormat = "supermarket_%s.log"
	defaultLogLevel      = "info"
	defaultHTTPAddr      = "127.0.0.1:9091"
)

type Config struct {
	ExportDir     string
	LogDir        string
	LogFileFormat string
	LogLevel      string
	HTTPAddr      string
	// JournalPath пустой путь отключает журнал
	JournalPath string
	// EnvFileLoaded true, если переменные пришли из .env
	EnvFileLoaded bool
}

// Load читает .env (если есть) и переменные окружения, подставляя значения по умолчанию
func Load() (*Config, error) {
	loaded := godotenv.Load(".env") == nil
	cfg := FromEnv()
	cfg.EnvFileLoaded = loaded
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv собирает конфиг только из окружения процесса
func FromEnv() *Config {
	return &Config{
		ExportDir:     getEnv("EXPORT_DIR", defaultExportDir),
		LogDir:        getEnv("LOG_DIR", defaultLogDir),
		LogFileFormat: getEnv("LOG_FILE_FORMAT", defaultLogFileFormat),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		HTTPAddr:      getEnv("HTTP_ADDR", defaultHTTPAddr),
		JournalPath:   os.Getenv("JOURNAL_PATH"),
	}
}

func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if !strings.Contains(c.LogFileFormat, "%s") {
		return fmt.Errorf("LOG_FILE_FORMAT %q must contain %%s for the date", c.LogFileFormat)
	}
	return nil
}

// Level уровень логирования zap; Validate уже проверил строку
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// LoggerConfig настройки логгера из конфига
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Directory:   c.LogDir,
		FileFormat:  c.LogFileFormat,
		Level:       c.Level(),
		ServiceName: ServiceName,
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
