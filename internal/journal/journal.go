package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"supermarket/internal/domain"
)

const (
	queryTimeout = 5 * time.Second
	timeFormat   = time.RFC3339
)

const schema = `
	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		product_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price REAL NOT NULL,
		remaining INTEGER NOT NULL,
		sold_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		ok INTEGER NOT NULL,
		exported_at TEXT NOT NULL
	);`

// Journal только дописывает строки продаж и экспортов в sqlite.
// Состояние склада из него никогда не восстанавливается.
type Journal struct {
	db        *sql.DB
	sessionID string
	now       func() time.Time
}

// Open открывает (или создаёт) файл журнала и схему; каждый процесс получает свой session id
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// sqlite пишет одним соединением
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, sessionID: uuid.NewString(), now: time.Now}, nil
}

func (j *Journal) SessionID() string { return j.sessionID }

// RecordSale пишет проданный снимок и остаток после продажи
func (j *Journal) RecordSale(ctx context.Context, sold domain.Product, remaining int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	query := "INSERT INTO sales (session_id, product_id, name, quantity, unit_price, remaining, sold_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := j.db.ExecContext(ctx, query, j.sessionID, sold.ID, sold.Name, sold.Quantity, sold.Price, remaining, j.now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record sale of product %d: %w", sold.ID, err)
	}
	return nil
}

// RecordExport пишет попытку экспорта вместе с результатом
func (j *Journal) RecordExport(ctx context.Context, kind, path string, ok bool) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	query := "INSERT INTO exports (session_id, kind, path, ok, exported_at) VALUES (?, ?, ?, ?, ?)"
	_, err := j.db.ExecContext(ctx, query, j.sessionID, kind, path, ok, j.now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record %s export: %w", kind, err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
