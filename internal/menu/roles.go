package menu

import "slices"

// Command токен операции, которую может вызвать роль
type Command string

const (
	CmdInsert          Command = "insert"
	CmdDelete          Command = "delete"
	CmdRestock         Command = "restock"
	CmdSell            Command = "sell"
	CmdShow            Command = "show"
	CmdExportInventory Command = "export-inventory"
	CmdExportReceipt   Command = "export-receipt"
	CmdBack            Command = "back"
)

// Item пункт меню: номер пункта = позиция в списке + 1
type Item struct {
	Command Command
	Label   string
}

// Role набор разрешённых команд. Все три роли обслуживает один Dispatcher.
type Role struct {
	Key   string
	Title string
	Items []Item
}

var (
	Admin = Role{
		Key:   "admin",
		Title: "ADMIN MENU",
		Items: []Item{
			{CmdInsert, "Insert Product"},
			{CmdDelete, "Delete Product"},
			{CmdRestock, "Restock"},
			{CmdSell, "Sell"},
			{CmdShow, "Show Inventory"},
			{CmdExportInventory, "Export Inventory"},
			{CmdExportReceipt, "Export Receipt"},
			{CmdBack, "Back"},
		},
	}
	Manager = Role{
		Key:   "manager",
		Title: "INVENTORY MANAGER MENU",
		Items: []Item{
			{CmdInsert, "Insert Product"},
			{CmdDelete, "Delete Product"},
			{CmdRestock, "Restock"},
			{CmdShow, "Show Inventory"},
			{CmdExportInventory, "Export Inventory"},
			{CmdBack, "Back"},
		},
	}
	Cashier = Role{
		Key:   "cashier",
		Title: "CASHIER MENU",
		Items: []Item{
			{CmdSell, "Sell Product"},
			{CmdShow, "Show Inventory"},
			{CmdExportReceipt, "Export Receipt"},
			{CmdBack, "Back"},
		},
	}
)

// Roles в порядке пунктов экрана входа
var Roles = []Role{Admin, Manager, Cashier}

func RoleByKey(key string) (Role, bool) {
	for _, r := range Roles {
		if r.Key == key {
			return r, true
		}
	}
	return Role{}, false
}

func (r Role) Allows(c Command) bool {
	return slices.ContainsFunc(r.Items, func(it Item) bool { return it.Command == c })
}

// Commands токены роли в порядке меню
func (r Role) Commands() []Command {
	out := make([]Command, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.Command)
	}
	return out
}

// CommandAt команда по номеру пункта, выбранному пользователем
func (r Role) CommandAt(choice int64) (Command, bool) {
	if choice < 1 || choice > int64(len(r.Items)) {
		return "", false
	}
	return r.Items[choice-1].Command, true
}
