package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"supermarket/internal/domain"
)

// ErrFileWrite любая неудача записи файла экспорта; причина завёрнута для логов
var ErrFileWrite = errors.New("file write failure")

// Kind вид экспорта, он же префикс имени файла
type Kind string

const (
	KindInventory Kind = "inventory"
	KindReceipt   Kind = "receipt"
)

// FileExporter пишет документ целиком в <dir>/<kind>_<YYYYMMDD_HHMMSS>.txt
type FileExporter struct {
	dir string
	now func() time.Time
}

func NewFileExporter(dir string, now func() time.Time) *FileExporter {
	if dir == "" {
		dir = "."
	}
	if now == nil {
		now = time.Now
	}
	return &FileExporter{dir: dir, now: now}
}

// FileName имя файла для текущего момента; повтор в ту же секунду перезапишет файл
func (e *FileExporter) FileName(kind Kind) string {
	return fmt.Sprintf("%s_%s.txt", kind, domain.Timestamp(e.now()))
}

// Export записывает content и возвращает путь к файлу
func (e *FileExporter) Export(kind Kind, content string) (string, error) {
	path := filepath.Join(e.dir, e.FileName(kind))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return path, fmt.Errorf("%w: %s: %w", ErrFileWrite, path, err)
	}
	return path, nil
}
