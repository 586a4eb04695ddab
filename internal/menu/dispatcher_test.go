package menu

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"supermarket/internal/domain"
	"supermarket/internal/repository"
	"supermarket/internal/service"
	"supermarket/internal/session"
)

var fixedNow = time.Date(2026, 10, 19, 18, 0, 1, 0, time.Local)

func setup(t *testing.T, input string) (*Dispatcher, *session.Session, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	s := session.NewInMemory(dir, func() time.Time { return fixedNow }, nil, nil)
	var out bytes.Buffer
	d := NewDispatcher(s, Options{In: strings.NewReader(input), Out: &out})
	return d, s, &out, dir
}

func mustContain(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
}

func TestRun_AdminSellAndExportReceipt(t *testing.T) {
	input := strings.Join([]string{
		"1",                           // Admin
		"1", "1", "Milk", "50", "2.5", // insert
		"4", "1", "40",                // sell 40 -> short
		"4", "1", "10",                // sell 10 -> empty
		"4", "1", "1",                 // not enough
		"5",                           // show
		"7",                           // export receipt
		"8",                           // back
		"4",                           // exit
	}, "\n") + "\n"
	d, _, out, dir := setup(t, input)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	mustContain(t, got, "=== ADMIN MENU ===")
	mustContain(t, got, "Product inserted successfully. :D")
	mustContain(t, got, "  Product 'Milk' is SHORT and needs refilling!")
	mustContain(t, got, " X Product 'Milk' is now EMPTY!")
	mustContain(t, got, " X Not enough stock.")
	mustContain(t, got, "ID: 1 | Name: Milk | Qty: 0 | Price: 2.5")
	mustContain(t, got, "Receipt exported to ")
	mustContain(t, got, "Goodbye! :D")

	data, err := os.ReadFile(filepath.Join(dir, "receipt_20261019_180001.txt"))
	if err != nil {
		t.Fatalf("receipt file: %v", err)
	}
	mustContain(t, string(data), "Milk x40 @ 2.5 = 100\nMilk x10 @ 2.5 = 25\n")
	mustContain(t, string(data), "Total: 125\n")
}

func TestRun_ReceiptSurvivesRoleSwitch(t *testing.T) {
	ctx := context.Background()
	input := "3\n1\n1\n2\n4\n3\n3\n4\n4\n"
	d, s, out, _ := setup(t, input)
	_ = s.Insert(ctx, domain.Product{ID: 1, Name: "Tea", Quantity: 10, Price: 4})

	// кассир продаёт, выходит, снова входит кассиром и экспортирует
	if err := d.Run(ctx); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), "=== CASHIER MENU ===")
	mustContain(t, out.String(), "Receipt exported to ")
	total, _ := s.ReceiptTotal(ctx)
	if total != 8 {
		t.Fatalf("receipt total %v", total)
	}
}

func TestRunRole_ManagerFlow(t *testing.T) {
	ctx := context.Background()
	input := strings.Join([]string{
		"1", "2", "Bread", "101", "1.5", // out of range
		"1", "2", "Bread", "30", "1.5",  // ok
		"1", "2", "Rolls", "1", "1",     // duplicate
		"3", "2", "71",                  // beyond 100
		"3", "2", "70",                  // to 100
		"3", "9", "1",                   // not found
		"2", "9",                        // delete missing
		"5",                             // export inventory
		"2", "2",                        // delete
		"4",                             // show -> empty
		"6",                             // back
	}, "\n") + "\n"
	d, s, out, dir := setup(t, input)

	if err := d.RunRole(ctx, Manager); err != nil {
		t.Fatalf("run role: %v", err)
	}
	got := out.String()
	mustContain(t, got, " X Quantity cannot exceed 100.")
	mustContain(t, got, " X Product already exists.")
	mustContain(t, got, " X Cannot restock beyond 100.")
	mustContain(t, got, "Restocked successfully.:D Current quantity: 100")
	mustContain(t, got, " X Product not found.")
	mustContain(t, got, " Product deleted successfully. :D")
	mustContain(t, got, "No products.")

	data, err := os.ReadFile(filepath.Join(dir, "inventory_20261019_180001.txt"))
	if err != nil {
		t.Fatalf("inventory file: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n2 Bread 100 1.5\n") {
		t.Fatalf("unexpected export:\n%s", data)
	}
	for range s.Products(ctx) {
		t.Fatalf("inventory must be empty")
	}
}

func TestRunRole_InvalidChoices(t *testing.T) {
	d, _, out, _ := setup(t, "9\nabc\n3\n4\n")
	if err := d.RunRole(context.Background(), Cashier); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	mustContain(t, got, " X Invalid choice.")
	mustContain(t, got, " X Invalid input. Please enter a number.")
	mustContain(t, got, " X No items in receipt to export.")
}

func TestExecute_RoleGating(t *testing.T) {
	ctx := context.Background()
	d, s, out, _ := setup(t, "1\nMilk\n5\n1\n")
	if err := d.Execute(ctx, Cashier, CmdInsert); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), " X Invalid choice.")
	for range s.Products(ctx) {
		t.Fatalf("cashier must not insert")
	}
}

func TestRun_InvalidRoleAndEOF(t *testing.T) {
	d, _, out, _ := setup(t, "7\n")
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("EOF must end cleanly: %v", err)
	}
	mustContain(t, out.String(), "SUPERMARKET LOGIN MENU")
	mustContain(t, out.String(), " X Invalid choice.")
}

func TestScreen_InteractiveClearsAndPauses(t *testing.T) {
	var out bytes.Buffer
	s := session.NewInMemory(t.TempDir(), nil, nil, nil)
	d := NewDispatcher(s, Options{In: strings.NewReader("5\n\n6\n"), Out: &out, Interactive: true})
	if err := d.RunRole(context.Background(), Manager); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), clearSequence)
	mustContain(t, out.String(), "Press Enter to continue...")
}

type brokenList struct{ *repository.MemoryStore }

func (brokenList) List(context.Context, repository.ProductFilter) ([]domain.Product, error) {
	return nil, errors.New("storage down")
}

func TestShow_ListErrorIsReported(t *testing.T) {
	store := repository.NewMemoryStore()
	s := session.New(session.Deps{
		Inventory: service.NewInventoryService(brokenList{store}, repository.NewMemoryTx(store), nil),
	})
	var out bytes.Buffer
	d := NewDispatcher(s, Options{In: strings.NewReader(""), Out: &out})

	if err := d.Execute(context.Background(), Admin, CmdShow); err != nil {
		t.Fatal(err)
	}
	mustContain(t, out.String(), " X list products: storage down")
	if strings.Contains(out.String(), "No products.") {
		t.Fatalf("list error reported as empty inventory:\n%s", out.String())
	}
}
