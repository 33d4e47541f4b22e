package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the dashboard.
type KeyMap struct {
	// Table navigation.
	Up          key.Binding
	Down        key.Binding
	ColumnLeft  key.Binding
	ColumnRight key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	PageSize    key.Binding

	// Table derivation.
	Filter      key.Binding // Filter the focused column.
	ClearFilter key.Binding
	StatusColor key.Binding // Cycle the urgency filter.
	Sort        key.Binding // Sort by the focused column.

	// Row actions.
	Select       key.Binding
	Open         key.Binding // Inline edit or read the focused cell.
	FullEdit     key.Binding
	ToggleStatus key.Binding
	Satisfaction key.Binding
	Copy         key.Binding
	Delete       key.Binding
	BulkDelete   key.Binding

	// Dialogs.
	Add     key.Binding
	Lists   key.Binding
	Stats   key.Binding
	Scripts key.Binding
	Reload  key.Binding

	// Inside dialogs.
	Confirm key.Binding
	Decline key.Binding
	Submit  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Back    key.Binding
	Cycle   key.Binding // Next option of a selector.

	// Custom lists and scripts dialogs.
	EntryUp     key.Binding
	EntryDown   key.Binding
	EntryDelete key.Binding
	Upload      key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	ColumnLeft: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "column left"),
	),
	ColumnRight: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "column right"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("p", "pgup"),
		key.WithHelp("p", "prev page"),
	),
	PageSize: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "page size"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter column"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear filters"),
	),
	StatusColor: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "status color"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort column"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit/view cell"),
	),
	FullEdit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "full edit"),
	),
	ToggleStatus: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "close/reopen"),
	),
	Satisfaction: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rate"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy number"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	BulkDelete: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete selected"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Lists: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "lists"),
	),
	Stats: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "statistics"),
	),
	Scripts: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "scripts"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Decline: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "next option"),
	),
	EntryUp: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("C-p", "previous entry"),
	),
	EntryDown: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "next entry"),
	),
	EntryDelete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "delete entry"),
	),
	Upload: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Filter, k.Sort, k.Add, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ColumnLeft, k.ColumnRight, k.NextPage, k.PrevPage, k.PageSize},
		{k.Filter, k.ClearFilter, k.StatusColor, k.Sort, k.Reload},
		{k.Select, k.Open, k.FullEdit, k.ToggleStatus, k.Satisfaction, k.Copy, k.Delete, k.BulkDelete},
		{k.Add, k.Lists, k.Stats, k.Scripts, k.Help, k.Quit},
	}
}
