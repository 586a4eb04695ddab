package journal

import (
	"context"
	"path/filepath"
	"testing"

	"supermarket/internal/domain"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordSale(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	sold := domain.Product{ID: 1, Name: "Milk", Quantity: 40, Price: 2.5}
	if err := j.RecordSale(ctx, sold, 10); err != nil {
		t.Fatalf("record: %v", err)
	}

	var (
		session   string
		name      string
		qty       int64
		price     float64
		remaining int64
	)
	row := j.db.QueryRowContext(ctx, "SELECT session_id, name, quantity, unit_price, remaining FROM sales")
	if err := row.Scan(&session, &name, &qty, &price, &remaining); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if session != j.SessionID() || name != "Milk" || qty != 40 || price != 2.5 || remaining != 10 {
		t.Fatalf("unexpected row: %s %s %d %v %d", session, name, qty, price, remaining)
	}
}

func TestJournal_RecordExport(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	if err := j.RecordExport(ctx, "inventory", "inventory_x.txt", true); err != nil {
		t.Fatal(err)
	}
	if err := j.RecordExport(ctx, "receipt", "receipt_x.txt", false); err != nil {
		t.Fatal(err)
	}

	var failed int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exports WHERE ok = 0").Scan(&failed); err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Fatalf("expected one failed export, got %d", failed)
	}
}

func TestJournal_ReopenKeepsRowsWithNewSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	_ = first.RecordSale(ctx, domain.Product{ID: 1, Name: "A", Quantity: 1, Price: 1}, 0)
	first.Close()

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	if second.SessionID() == first.SessionID() {
		t.Fatalf("session id reused")
	}
	var n int
	if err := second.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}
