package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"supermarket/internal/domain"
)

// MemoryStore объединённое in-memory хранилище склада и текущего чека
type MemoryStore struct {
	mu           sync.RWMutex
	productsByID map[int64]domain.Product
	receiptItems []domain.LineItem
	receiptTotal float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID: make(map[int64]domain.Product),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; ok {
		return ErrDuplicateID
	}
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0, len(m.productsByID))
	for _, p := range m.productsByID {
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		out = append(out, p)
	}
	// map не упорядочен, а вывод и экспорт должны идти по возрастанию ID
	slices.SortFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// ReceiptRepository implementation on wrapper type
type MemoryReceipt struct{ store *MemoryStore }

func NewMemoryReceipt(store *MemoryStore) *MemoryReceipt { return &MemoryReceipt{store: store} }

var _ ReceiptRepository = (*MemoryReceipt)(nil)

// Append добавляет позицию и наращивает итог, не пересчитывая его
func (mr *MemoryReceipt) Append(ctx context.Context, item domain.LineItem) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	mr.store.receiptItems = append(mr.store.receiptItems, item)
	mr.store.receiptTotal += item.Subtotal()
	return nil
}

func (mr *MemoryReceipt) Items(ctx context.Context) ([]domain.LineItem, error) {
	mr.store.rlock(ctx)
	defer mr.store.runlock(ctx)
	return slices.Clone(mr.store.receiptItems), nil
}

func (mr *MemoryReceipt) Total(ctx context.Context) (float64, error) {
	mr.store.rlock(ctx)
	defer mr.store.runlock(ctx)
	return mr.store.receiptTotal, nil
}

func (mr *MemoryReceipt) Clear(ctx context.Context) error {
	mr.store.wlock(ctx)
	defer mr.store.wunlock(ctx)
	mr.store.receiptItems = nil
	mr.store.receiptTotal = 0
	return nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// внутри транзакции репозитории пропускают собственные локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
