package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config настройки файла логов
type Config struct {
	Directory   string
	FileFormat  string // например "supermarket_%s.log", %s = дата
	Level       zapcore.Level
	ServiceName string
}

// Logger zap-логгер, пишущий JSON в дневной файл. Консоль остаётся за интерфейсом меню.
type Logger struct {
	*zap.Logger
	file *os.File
	path string
}

// New создаёт каталог логов и открывает файл на текущую дату
func New(cfg Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.Directory, 0o775); err != nil {
		return nil, fmt.Errorf("create logs directory %s: %w", cfg.Directory, err)
	}

	name := fmt.Sprintf(cfg.FileFormat, time.Now().Format("2006-01-02"))
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(cfg.Directory, name)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(file),
		cfg.Level,
	)

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.ServiceName != "" {
		opts = append(opts, zap.Fields(zap.String("service.name", cfg.ServiceName)))
	}

	return &Logger{Logger: zap.New(core, opts...), file: file, path: path}, nil
}

// Nop логгер для тестов
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) Path() string { return l.path }

// Close сбрасывает буферы и закрывает файл
func (l *Logger) Close() error {
	err := l.Logger.Sync()
	if l.file != nil {
		err = errors.Join(err, l.file.Close())
	}
	return err
}
