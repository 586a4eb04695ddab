package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
	"time"

	"supermarket/internal/domain"
	"supermarket/internal/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrDuplicateID        = repository.ErrDuplicateID
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Sale результат продажи: снимок проданного и уровень остатка после списания
type Sale struct {
	// Sold копия товара до продажи, Quantity = проданное количество
	Sold      domain.Product    `json:"sold"`
	Remaining int64             `json:"remaining"`
	Level     domain.StockLevel `json:"level"`
}

// InventoryService реализует правила склада: вставка, удаление, пополнение, продажа
type InventoryService struct {
	repo repository.ProductRepository
	tx   repository.TxManager
	now  func() time.Time
}

func NewInventoryService(repo repository.ProductRepository, tx repository.TxManager, now func() time.Time) *InventoryService {
	if now == nil {
		now = time.Now
	}
	return &InventoryService{repo: repo, tx: tx, now: now}
}

// Insert сохраняет товар с ID вызывающего. Отрицательное количество не проверяется.
func (s *InventoryService) Insert(ctx context.Context, p domain.Product) error {
	if p.Quantity > domain.MaxStock {
		return ErrQuantityOutOfRange
	}
	cp := p
	return s.repo.Create(ctx, &cp)
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Restock увеличивает остаток на amount. amount может быть отрицательным.
func (s *InventoryService) Restock(ctx context.Context, id, amount int64) (*domain.Product, error) {
	var updated *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// сравнение без сложения: огромный amount не должен переполнить int64
		if amount > domain.MaxStock-p.Quantity {
			return ErrQuantityOutOfRange
		}
		p.Quantity += amount
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Sell списывает amount и возвращает снимок проданного
func (s *InventoryService) Sell(ctx context.Context, id, amount int64) (*Sale, error) {
	return s.SellWith(ctx, id, amount, nil)
}

// SellWith как Sell, но record вызывается внутри той же транзакции до списания.
// Ошибка record отменяет продажу, остаток не меняется.
func (s *InventoryService) SellWith(ctx context.Context, id, amount int64, record func(ctx context.Context, sold domain.Product) error) (*Sale, error) {
	var sale *Sale
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Quantity < amount {
			return ErrInsufficientStock
		}
		// отрицательная продажа увеличивает остаток; переполнение int64 отклоняется
		if amount < 0 && p.Quantity > math.MaxInt64+amount {
			return ErrQuantityOutOfRange
		}
		sold := *p
		sold.Quantity = amount

		if record != nil {
			if err := record(ctx, sold); err != nil {
				return err
			}
		}
		p.Quantity -= amount
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		sale = &Sale{Sold: sold, Remaining: p.Quantity, Level: domain.LevelOf(p.Quantity)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Products ленивая последовательность товаров по возрастанию ID; каждый range читает склад заново.
// Ошибка чтения приходит единственной парой с пустым товаром.
func (s *InventoryService) Products(ctx context.Context) iter.Seq2[domain.Product, error] {
	return func(yield func(domain.Product, error) bool) {
		list, err := s.repo.List(ctx, repository.ProductFilter{})
		if err != nil {
			yield(domain.Product{}, fmt.Errorf("list products: %w", err))
			return
		}
		for _, p := range list {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (s *InventoryService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

func (s *InventoryService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Snapshot текст экспорта склада: заголовок, метка времени, пустая строка, по строке на товар
func (s *InventoryService) Snapshot(ctx context.Context) (string, error) {
	list, err := s.repo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}
	var b strings.Builder
	b.WriteString("=== INVENTORY EXPORT ===\n")
	fmt.Fprintf(&b, "Timestamp: %s\n\n", domain.Timestamp(s.now()))
	for _, p := range list {
		b.WriteString(p.FileLine())
		b.WriteByte('\n')
	}
	return b.String(), nil
}
