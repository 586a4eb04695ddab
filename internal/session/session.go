package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"go.uber.org/zap"

	"supermarket/internal/domain"
	"supermarket/internal/export"
	"supermarket/internal/repository"
	"supermarket/internal/service"
)

// ErrEmptyReceipt экспорт чека без позиций не выполняется
var ErrEmptyReceipt = errors.New("no items in receipt")

// Recorder журнал продаж и экспортов; ошибки журнала не срывают операцию
type Recorder interface {
	RecordSale(ctx context.Context, sold domain.Product, remaining int64) error
	RecordExport(ctx context.Context, kind, path string, ok bool) error
}

type nopRecorder struct{}

func (nopRecorder) RecordSale(context.Context, domain.Product, int64) error  { return nil }
func (nopRecorder) RecordExport(context.Context, string, string, bool) error { return nil }

// Deps зависимости сессии
type Deps struct {
	Inventory *service.InventoryService
	Receipt   *service.ReceiptService
	Exporter  *export.FileExporter
	Journal   Recorder
	Logger    *zap.Logger
}

// Session общее состояние склада и чека на весь процесс.
// Одна операция целиком завершается до начала следующей.
type Session struct {
	mu        sync.Mutex
	inventory *service.InventoryService
	receipt   *service.ReceiptService
	exporter  *export.FileExporter
	journal   Recorder
	log       *zap.Logger
}

func New(d Deps) *Session {
	if d.Journal == nil {
		d.Journal = nopRecorder{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Session{
		inventory: d.Inventory,
		receipt:   d.Receipt,
		exporter:  d.Exporter,
		journal:   d.Journal,
		log:       d.Logger,
	}
}

func (s *Session) Insert(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.inventory.Insert(ctx, p); err != nil {
		s.log.Warn("insert rejected", zap.Int64("product_id", p.ID), zap.Int64("quantity", p.Quantity), zap.Error(err))
		return err
	}
	s.log.Info("product inserted", zap.Int64("product_id", p.ID), zap.String("name", p.Name),
		zap.Int64("quantity", p.Quantity), zap.Float64("price", p.Price))
	return nil
}

func (s *Session) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.inventory.Delete(ctx, id); err != nil {
		s.log.Warn("delete rejected", zap.Int64("product_id", id), zap.Error(err))
		return err
	}
	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Session) Restock(ctx context.Context, id, amount int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.inventory.Restock(ctx, id, amount)
	if err != nil {
		s.log.Warn("restock rejected", zap.Int64("product_id", id), zap.Int64("amount", amount), zap.Error(err))
		return nil, err
	}
	s.log.Info("product restocked", zap.Int64("product_id", id), zap.Int64("amount", amount), zap.Int64("quantity", p.Quantity))
	return p, nil
}

// Sell списывает товар и добавляет позицию в чек по цене на момент продажи
func (s *Session) Sell(ctx context.Context, id, amount int64) (*service.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// позиция чека пишется в той же транзакции, что и списание
	sale, err := s.inventory.SellWith(ctx, id, amount, func(ctx context.Context, sold domain.Product) error {
		if err := s.receipt.AddItem(ctx, sold.Name, sold.Quantity, sold.Price); err != nil {
			return fmt.Errorf("add sale to receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("sale rejected", zap.Int64("product_id", id), zap.Int64("amount", amount), zap.Error(err))
		return nil, err
	}
	if err := s.journal.RecordSale(ctx, sale.Sold, sale.Remaining); err != nil {
		s.log.Error("journal sale failed", zap.Int64("product_id", id), zap.Error(err))
	}
	s.log.Info("product sold", zap.Int64("product_id", id), zap.Int64("amount", amount),
		zap.Int64("remaining", sale.Remaining), zap.String("level", string(sale.Level)))
	return sale, nil
}

// Products ленивый список товаров по возрастанию ID
func (s *Session) Products(ctx context.Context) iter.Seq2[domain.Product, error] {
	return s.inventory.Products(ctx)
}

func (s *Session) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.inventory.List(ctx, f)
}

func (s *Session) ExportInventory(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.inventory.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.write(ctx, export.KindInventory, doc)
}

func (s *Session) ExportReceipt(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty, err := s.receipt.IsEmpty(ctx)
	if err != nil {
		return "", err
	}
	if empty {
		return "", ErrEmptyReceipt
	}
	doc, err := s.receipt.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.write(ctx, export.KindReceipt, doc)
}

// ClearReceipt единственный способ обнулить чек; автоматического сброса нет
func (s *Session) ClearReceipt(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.receipt.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("receipt cleared")
	return nil
}

// ReceiptTotal текущий итог чека
func (s *Session) ReceiptTotal(ctx context.Context) (float64, error) {
	return s.receipt.Total(ctx)
}

func (s *Session) write(ctx context.Context, kind export.Kind, doc string) (string, error) {
	path, err := s.exporter.Export(kind, doc)
	if jerr := s.journal.RecordExport(ctx, string(kind), path, err == nil); jerr != nil {
		s.log.Error("journal export failed", zap.String("kind", string(kind)), zap.Error(jerr))
	}
	if err != nil {
		s.log.Error("export failed", zap.String("kind", string(kind)), zap.String("path", path), zap.Error(err))
		return "", err
	}
	s.log.Info("exported", zap.String("kind", string(kind)), zap.String("path", path))
	return path, nil
}
