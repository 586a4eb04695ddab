package session

import (
	"time"

	"go.uber.org/zap"

	"supermarket/internal/export"
	"supermarket/internal/repository"
	"supermarket/internal/service"
)

// NewInMemory собирает сессию поверх in-memory хранилища
func NewInMemory(exportDir string, now func() time.Time, journal Recorder, log *zap.Logger) *Session {
	store := repository.NewMemoryStore()
	tx := repository.NewMemoryTx(store)
	return New(Deps{
		Inventory: service.NewInventoryService(store, tx, now),
		Receipt:   service.NewReceiptService(repository.NewMemoryReceipt(store), now),
		Exporter:  export.NewFileExporter(exportDir, now),
		Journal:   journal,
		Logger:    log,
	})
}
