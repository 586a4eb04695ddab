package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"supermarket/internal/domain"
	"supermarket/internal/repository"
)

const receiptRule = "-------------------"

// ReceiptService накапливает проданные позиции текущей сессии и итог
type ReceiptService struct {
	repo repository.ReceiptRepository
	now  func() time.Time
}

func NewReceiptService(repo repository.ReceiptRepository, now func() time.Time) *ReceiptService {
	if now == nil {
		now = time.Now
	}
	return &ReceiptService{repo: repo, now: now}
}

// AddItem без проверок: вызывающий уже провёл продажу
func (s *ReceiptService) AddItem(ctx context.Context, name string, qty int64, unitPrice float64) error {
	return s.repo.Append(ctx, domain.LineItem{Name: name, Quantity: qty, UnitPrice: unitPrice})
}

func (s *ReceiptService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *ReceiptService) IsEmpty(ctx context.Context) (bool, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return false, err
	}
	return len(items) == 0, nil
}

func (s *ReceiptService) Items(ctx context.Context) ([]domain.LineItem, error) {
	return s.repo.Items(ctx)
}

func (s *ReceiptService) Total(ctx context.Context) (float64, error) {
	return s.repo.Total(ctx)
}

// Snapshot текст чека. Сумма строки считается отдельно от накопленного итога.
func (s *ReceiptService) Snapshot(ctx context.Context) (string, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return "", fmt.Errorf("receipt items: %w", err)
	}
	total, err := s.repo.Total(ctx)
	if err != nil {
		return "", fmt.Errorf("receipt total: %w", err)
	}

	var b strings.Builder
	b.WriteString("===== RECEIPT =====\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", domain.Timestamp(s.now()))
	b.WriteString(receiptRule + "\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s x%d @ %s = %s\n",
			it.Name, it.Quantity, domain.FormatDecimal(it.UnitPrice), domain.FormatDecimal(it.Subtotal()))
	}
	b.WriteString(receiptRule + "\n")
	fmt.Fprintf(&b, "Total: %s\n", domain.FormatDecimal(total))
	b.WriteString("===================\n")
	return b.String(), nil
}
