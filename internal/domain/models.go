package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// MaxStock верхняя граница количества товара на складе
	MaxStock int64 = 100
	// LowStockThreshold ниже этого остатка товар считается заканчивающимся
	LowStockThreshold int64 = 20
)

// Product представляет товар в супермаркете
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// String строка для вывода в консоль
func (p Product) String() string {
	return fmt.Sprintf("ID: %d | Name: %s | Qty: %d | Price: %s", p.ID, p.Name, p.Quantity, FormatDecimal(p.Price))
}

// FileLine позиционная строка для файла экспорта: id name quantity price
func (p Product) FileLine() string {
	return fmt.Sprintf("%d %s %d %s", p.ID, p.Name, p.Quantity, FormatDecimal(p.Price))
}

// StockLevel уровень остатка после продажи
type StockLevel string

const (
	StockNormal StockLevel = "normal"
	StockEmpty  StockLevel = "empty"
	StockLow    StockLevel = "low"
	StockFull   StockLevel = "full"
)

// LevelOf классифицирует остаток; проверки идут в порядке empty, low, full
func LevelOf(quantity int64) StockLevel {
	switch {
	case quantity == 0:
		return StockEmpty
	case quantity < LowStockThreshold:
		return StockLow
	case quantity == MaxStock:
		return StockFull
	default:
		return StockNormal
	}
}

// LineItem позиция чека, копия данных товара на момент продажи
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Subtotal стоимость позиции
func (li LineItem) Subtotal() float64 {
	return float64(li.Quantity) * li.UnitPrice
}

// FormatDecimal печатает число с точностью до 6 значащих цифр без хвостовых нулей
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// TimestampLayout сортируемая метка времени для заголовков и имён файлов экспорта
const TimestampLayout = "20060102_150405"

// Timestamp форматирует момент в локальном времени
func Timestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
