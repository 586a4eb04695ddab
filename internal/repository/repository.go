package repository

import (
	"context"
	"errors"
	"strings"

	"supermarket/internal/domain"
)

var (
	// ErrNotFound возвращается, когда товара с таким ID нет
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateID возвращается при вставке товара с уже занятым ID
	ErrDuplicateID = errors.New("product already exists")
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	NameSubstring string
}

// ProductRepository интерфейс хранилища товаров. ID назначает вызывающий.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	// List возвращает товары по возрастанию ID
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// ReceiptRepository интерфейс хранилища позиций текущего чека
type ReceiptRepository interface {
	Append(ctx context.Context, item domain.LineItem) error
	Items(ctx context.Context) ([]domain.LineItem, error)
	Total(ctx context.Context) (float64, error)
	Clear(ctx context.Context) error
}

// TxManager абстракция транзакции. Для in-memory это глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
