package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"supermarket/internal/domain"
	"supermarket/internal/export"
	"supermarket/internal/service"
	"supermarket/internal/session"
)

// Dispatcher один обработчик для всех ролей: роль лишь ограничивает набор команд
type Dispatcher struct {
	session *session.Session
	in      *Prompter
	out     io.Writer
	screen  *Screen
	log     *zap.Logger
}

type Options struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
	Logger      *zap.Logger
}

func NewDispatcher(s *session.Session, opts Options) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	p := NewPrompter(opts.In, opts.Out)
	return &Dispatcher{
		session: s,
		in:      p,
		out:     opts.Out,
		screen:  NewScreen(opts.Out, p, opts.Interactive),
		log:     opts.Logger,
	}
}

// Run экран входа: выбор роли до пункта Exit или конца ввода
func (d *Dispatcher) Run(ctx context.Context) error {
	exitChoice := int64(len(Roles) + 1)
	for {
		d.screen.Clear()
		d.printLogin()

		choice, err := d.in.Int("Enter choice: ")
		if err != nil {
			return endOfInput(err)
		}
		if choice == exitChoice {
			fmt.Fprint(d.out, "Goodbye! :D\n")
			return nil
		}
		if choice < 1 || choice > int64(len(Roles)) {
			fmt.Fprint(d.out, " X Invalid choice.\n")
			if err := d.screen.Pause(); err != nil {
				return endOfInput(err)
			}
			continue
		}
		if err := d.RunRole(ctx, Roles[choice-1]); err != nil {
			return endOfInput(err)
		}
	}
}

func (d *Dispatcher) printLogin() {
	fmt.Fprint(d.out, "==============================\n")
	fmt.Fprint(d.out, "   SUPERMARKET LOGIN MENU\n")
	fmt.Fprint(d.out, "==============================\n")
	fmt.Fprint(d.out, "1. Admin\n2. Inventory Manager\n3. Cashier\n4. Exit\n")
	fmt.Fprint(d.out, "------------------------------\n")
}

// RunRole меню одной роли до пункта Back
func (d *Dispatcher) RunRole(ctx context.Context, role Role) error {
	d.log.Info("role menu opened", zap.String("role", role.Key))
	defer d.log.Info("role menu closed", zap.String("role", role.Key))

	for {
		d.screen.Clear()
		fmt.Fprintf(d.out, "\n=== %s ===\n", role.Title)
		for i, it := range role.Items {
			fmt.Fprintf(d.out, "%d. %s\n", i+1, it.Label)
		}
		fmt.Fprint(d.out, "Choice: ")

		choice, err := d.in.Int("")
		if err != nil {
			return err
		}
		cmd, ok := role.CommandAt(choice)
		if ok && cmd == CmdBack {
			return nil
		}

		d.screen.Clear()
		if !ok {
			fmt.Fprint(d.out, " X Invalid choice.\n")
		} else if err := d.Execute(ctx, role, cmd); err != nil {
			return err
		}
		if err := d.screen.Pause(); err != nil {
			return err
		}
	}
}

// Execute выполняет одну команду, если роль её разрешает.
// Возвращает только ошибки ввода; ошибки операций печатаются пользователю.
func (d *Dispatcher) Execute(ctx context.Context, role Role, cmd Command) error {
	if !role.Allows(cmd) {
		fmt.Fprint(d.out, " X Invalid choice.\n")
		return nil
	}
	switch cmd {
	case CmdInsert:
		return d.insert(ctx)
	case CmdDelete:
		return d.delete(ctx)
	case CmdRestock:
		return d.restock(ctx)
	case CmdSell:
		return d.sell(ctx)
	case CmdShow:
		d.show(ctx)
	case CmdExportInventory:
		d.exportInventory(ctx)
	case CmdExportReceipt:
		d.exportReceipt(ctx)
	}
	return nil
}

func (d *Dispatcher) readProduct() (domain.Product, error) {
	var p domain.Product
	var err error
	if p.ID, err = d.in.Int("Enter product ID: "); err != nil {
		return p, err
	}
	if p.Name, err = d.in.Line("Enter product name: "); err != nil {
		return p, err
	}
	if p.Quantity, err = d.in.Int("Enter quantity: "); err != nil {
		return p, err
	}
	if p.Price, err = d.in.Float("Enter price: "); err != nil {
		return p, err
	}
	return p, nil
}

func (d *Dispatcher) insert(ctx context.Context) error {
	fmt.Fprint(d.out, "=== INSERT PRODUCT ===\n")
	p, err := d.readProduct()
	if err != nil {
		return err
	}
	switch err := d.session.Insert(ctx, p); {
	case err == nil:
		fmt.Fprint(d.out, "Product inserted successfully. :D \n")
	case errors.Is(err, service.ErrDuplicateID):
		fmt.Fprint(d.out, " X Product already exists.\n")
	case errors.Is(err, service.ErrQuantityOutOfRange):
		fmt.Fprint(d.out, " X Quantity cannot exceed 100.\n")
	default:
		d.printUnexpected(err)
	}
	return nil
}

func (d *Dispatcher) delete(ctx context.Context) error {
	fmt.Fprint(d.out, "=== DELETE PRODUCT ===\n")
	id, err := d.in.Int("Enter product ID to delete: ")
	if err != nil {
		return err
	}
	switch err := d.session.Delete(ctx, id); {
	case err == nil:
		fmt.Fprint(d.out, " Product deleted successfully. :D \n")
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprint(d.out, " X Product not found.\n")
	default:
		d.printUnexpected(err)
	}
	return nil
}

func (d *Dispatcher) restock(ctx context.Context) error {
	fmt.Fprint(d.out, "=== RESTOCK PRODUCT ===\n")
	id, err := d.in.Int("Enter product ID: ")
	if err != nil {
		return err
	}
	amount, err := d.in.Int("Enter amount to restock: ")
	if err != nil {
		return err
	}
	p, err := d.session.Restock(ctx, id, amount)
	switch {
	case err == nil:
		fmt.Fprintf(d.out, "Restocked successfully.:D Current quantity: %d\n", p.Quantity)
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprint(d.out, " X Product not found.\n")
	case errors.Is(err, service.ErrQuantityOutOfRange):
		fmt.Fprint(d.out, " X Cannot restock beyond 100.\n")
	default:
		d.printUnexpected(err)
	}
	return nil
}

func (d *Dispatcher) sell(ctx context.Context) error {
	fmt.Fprint(d.out, "=== SELL PRODUCT ===\n")
	id, err := d.in.Int("Enter product ID: ")
	if err != nil {
		return err
	}
	amount, err := d.in.Int("Enter quantity to sell: ")
	if err != nil {
		return err
	}
	sale, err := d.session.Sell(ctx, id, amount)
	switch {
	case err == nil:
		d.printLevel(sale.Sold.Name, sale.Level)
		fmt.Fprint(d.out, "Sale successful. :D\n")
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprint(d.out, " X Product not found.\n")
	case errors.Is(err, service.ErrInsufficientStock):
		fmt.Fprint(d.out, " X Not enough stock.\n")
	default:
		d.printUnexpected(err)
	}
	return nil
}

func (d *Dispatcher) printLevel(name string, level domain.StockLevel) {
	switch level {
	case domain.StockEmpty:
		fmt.Fprintf(d.out, " X Product '%s' is now EMPTY!\n", name)
	case domain.StockLow:
		fmt.Fprintf(d.out, "  Product '%s' is SHORT and needs refilling!\n", name)
	case domain.StockFull:
		fmt.Fprintf(d.out, " Product '%s' is FULL. :D\n", name)
	}
}

func (d *Dispatcher) show(ctx context.Context) {
	fmt.Fprint(d.out, "\n=== INVENTORY STATUS ===\n")
	empty := true
	for p, err := range d.session.Products(ctx) {
		if err != nil {
			d.printUnexpected(err)
			return
		}
		empty = false
		fmt.Fprintln(d.out, p.String())
	}
	if empty {
		fmt.Fprint(d.out, "No products.\n")
	}
}

func (d *Dispatcher) exportInventory(ctx context.Context) {
	path, err := d.session.ExportInventory(ctx)
	if err != nil {
		fmt.Fprint(d.out, " X Failed to export inventory.\n")
		return
	}
	fmt.Fprintf(d.out, "Inventory exported to %s :D\n", path)
}

func (d *Dispatcher) exportReceipt(ctx context.Context) {
	path, err := d.session.ExportReceipt(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(d.out, "Receipt exported to %s :D\n", path)
	case errors.Is(err, session.ErrEmptyReceipt):
		fmt.Fprint(d.out, " X No items in receipt to export.\n")
	case errors.Is(err, export.ErrFileWrite):
		fmt.Fprint(d.out, " X Failed to export receipt.\n")
	default:
		d.printUnexpected(err)
	}
}

func (d *Dispatcher) printUnexpected(err error) {
	d.log.Error("unexpected operation error", zap.Error(err))
	fmt.Fprintf(d.out, " X %v\n", err)
}

// endOfInput закрытый ввод завершает программу штатно
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
