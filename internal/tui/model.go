package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// FocusRegion identifies where keystrokes go.
type FocusRegion int

const (
	// FocusTable means keys act on the table.
	FocusTable FocusRegion = iota
	// FocusFilter means keystrokes edit the filter of the focused column.
	FocusFilter
	// FocusInlineEdit means keystrokes edit the open inline edit.
	FocusInlineEdit
	// FocusModal means a dialog is open. All input routes to it.
	FocusModal
)

// noticeFadeDelay is how long a notification stays in the status line.
const noticeFadeDelay = 4 * time.Second

// statusColorCycle is the order the urgency filter steps through.
var statusColorCycle = []table.StatusColor{
	"",
	table.StatusColorClosed,
	table.StatusColorAmber,
	table.StatusColorRed,
}

// Config holds the collaborators of the dashboard.
type Config struct {
	Engine *table.Engine
	// Inbox must be the engine's notifier.
	Inbox     *session.Inbox
	Lists     *service.ListService
	Scripts   *service.ScriptService
	Clipboard table.Clipboard
}

// Model is the top-level bubbletea model for the ticket dashboard.
type Model struct {
	ctx       context.Context
	engine    *table.Engine
	inbox     *session.Inbox
	lists     *service.ListService
	scripts   *service.ScriptService
	clipboard table.Clipboard

	theme Theme
	keys  KeyMap
	help  help.Model

	grid   btable.Model
	input  textinput.Model
	editor textarea.Model

	width  int
	height int

	focusRegion FocusRegion
	// column indexes domain.Columns; it is the field cell actions apply to.
	column int
	view   table.View
	state  view.State

	notice    *table.Notification
	noticeTTL time.Duration

	// Add form.
	formCursor int

	// Custom lists dialog.
	groups            service.ListGroups
	listField         int
	listCursor        int
	pendingListDelete string

	// Satisfaction dialog.
	satisfactionCursor int

	// Script dialogs.
	scriptList   []domain.Script
	scriptCursor int
	uploading    bool
	fillCursor   int
}

// NewModel builds the dashboard. The collection is loaded by Init.
func NewModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Cursor.SetMode(cursor.CursorStatic)
	input.CharLimit = 500

	editor := textarea.New()
	editor.Cursor.SetMode(cursor.CursorStatic)
	editor.ShowLineNumbers = false
	editor.SetWidth(60)
	editor.SetHeight(8)

	grid := btable.New(btable.WithFocused(true), btable.WithHeight(table.DefaultPageSize+1))
	styles := btable.DefaultStyles()
	styles.Header = styles.Header.Foreground(DefaultTheme.HeaderForeground).Bold(true)
	styles.Selected = DefaultTheme.cursorStyle()
	grid.SetStyles(styles)

	clip := cfg.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}

	model := Model{
		ctx:       ctx,
		engine:    cfg.Engine,
		inbox:     cfg.Inbox,
		lists:     cfg.Lists,
		scripts:   cfg.Scripts,
		clipboard: clip,
		theme:     DefaultTheme,
		keys:      DefaultKeyMap,
		help:      help.New(),
		grid:      grid,
		input:     input,
		editor:    editor,
		state:     view.NoModal{},
		noticeTTL: noticeFadeDelay,
	}
	model.syncColumns()
	model.refresh()
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return loadCmd(model.ctx, model.engine)
}

// Update implements tea.Model. Routes keyboard events by focus region and
// applies the results of store calls.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch model.focusRegion {
		case FocusFilter:
			return model.handleFilterKeys(message)
		case FocusInlineEdit:
			return model.handleInlineEditKeys(message)
		case FocusModal:
			return model.handleModalKeys(message)
		}
		return model.handleTableKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		model.editor.SetWidth(min(80, max(20, message.Width-8)))

	case loadedMsg:
		model.refresh()
		return model, model.pullNotice()

	case writtenMsg:
		return model.handleWritten(message)

	case listsMsg:
		return model.handleLists(message)

	case listsSavedMsg:
		return model.handleListsSaved(message)

	case listDeletedMsg:
		if message.err != nil {
			return model, model.report("delete list entry", message.err)
		}
		return model, tea.Batch(
			model.succeed("delete list entry", "List entry deleted"),
			listsCmd(model.ctx, model.lists, listsForManager),
		)

	case scriptsMsg:
		return model.handleScripts(message)

	case scriptOpenedMsg:
		return model.handleScriptOpened(message)

	case scriptUploadedMsg:
		if message.err != nil {
			return model, model.report("upload script", message.err)
		}
		return model, tea.Batch(
			model.succeed("upload script", fmt.Sprintf("Script %s uploaded", message.script.Name)),
			scriptsCmd(model.ctx, model.scripts),
		)

	case noticeFadeMsg:
		if model.notice == message.notice {
			model.notice = nil
		}
	}
	return model, nil
}

// handleTableKeys processes keystrokes while the table has focus.
func (model Model) handleTableKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := model.focusedField()

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll

	case key.Matches(message, model.keys.Up):
		model.grid.MoveUp(1)

	case key.Matches(message, model.keys.Down):
		model.grid.MoveDown(1)

	case key.Matches(message, model.keys.ColumnLeft):
		if model.column > 0 {
			model.column--
			model.syncColumns()
		}

	case key.Matches(message, model.keys.ColumnRight):
		if model.column < len(domain.Columns)-1 {
			model.column++
			model.syncColumns()
		}

	case key.Matches(message, model.keys.NextPage):
		model.engine.NextPage()
		model.grid.SetCursor(0)
		model.refresh()

	case key.Matches(message, model.keys.PrevPage):
		model.engine.PrevPage()
		model.grid.SetCursor(0)
		model.refresh()

	case key.Matches(message, model.keys.PageSize):
		next := table.PageSizes[(slices.Index(table.PageSizes, model.view.PageSize)+1)%len(table.PageSizes)]
		if err := model.engine.SetPageSize(next); err != nil {
			return model, model.report("page size", err)
		}
		model.grid.SetCursor(0)
		model.refresh()

	case key.Matches(message, model.keys.Filter):
		current, ok := criterion(model.view.Criteria, field)
		if !ok {
			return model, model.report("filter", fmt.Errorf("%s cannot be filtered", field.Label()))
		}
		model.focusRegion = FocusFilter
		model.input.Prompt = field.Label() + " ~ "
		model.input.SetValue(current)
		model.input.CursorEnd()
		return model, model.input.Focus()

	case key.Matches(message, model.keys.ClearFilter):
		model.engine.SetCriteria(filter.Criteria{})
		_ = model.engine.SetStatusColor("")
		model.refresh()

	case key.Matches(message, model.keys.StatusColor):
		next := statusColorCycle[(slices.Index(statusColorCycle, model.view.StatusColor)+1)%len(statusColorCycle)]
		_ = model.engine.SetStatusColor(next)
		model.refresh()

	case key.Matches(message, model.keys.Sort):
		if err := model.engine.ToggleSort(field); err != nil {
			return model, model.report("sort", err)
		}
		model.refresh()

	case key.Matches(message, model.keys.Add):
		return model, listsCmd(model.ctx, model.lists, listsForAddForm)

	case key.Matches(message, model.keys.Lists):
		return model, listsCmd(model.ctx, model.lists, listsForManager)

	case key.Matches(message, model.keys.Stats):
		model.openModal(view.Statistics{Tab: view.StatsOrganizations})

	case key.Matches(message, model.keys.Scripts):
		return model, scriptsCmd(model.ctx, model.scripts)

	case key.Matches(message, model.keys.Reload):
		return model, loadCmd(model.ctx, model.engine)

	case key.Matches(message, model.keys.BulkDelete):
		confirm, err := view.ConfirmBulkDelete(model.engine.SelectedIDs())
		if err != nil {
			return model, model.report(table.OpDeleteSelected, table.ErrNothingSelected)
		}
		model.openModal(confirm)

	default:
		return model.handleRowKeys(message)
	}
	return model, nil
}

// handleRowKeys processes keystrokes that act on the row under the cursor.
func (model Model) handleRowKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, ok := model.currentRow()
	if !ok {
		return model, nil
	}
	ticket := row.Ticket
	field := model.focusedField()

	switch {
	case key.Matches(message, model.keys.Select):
		if _, err := model.engine.ToggleSelected(ticket.ID); err != nil {
			return model, model.report("select", err)
		}
		model.refresh()

	case key.Matches(message, model.keys.Open):
		if !table.IsInlineEditable(field) {
			model.openModal(view.OpenField(ticket, field))
			return model, nil
		}
		if err := model.engine.BeginEdit(ticket.ID, field); err != nil {
			return model, model.report(table.OpInlineEdit, err)
		}
		edit, _ := model.engine.Edit()
		model.focusRegion = FocusInlineEdit
		model.input.Prompt = field.Label() + ": "
		model.input.SetValue(edit.Pending)
		model.input.CursorEnd()
		model.refresh()
		return model, model.input.Focus()

	case key.Matches(message, model.keys.FullEdit):
		if !field.IsFreeText() && field != domain.FieldTags {
			return model, model.report(table.OpSaveField, fmt.Errorf("%w: %s", table.ErrFieldNotEditable, field))
		}
		edit, err := view.Escalate(view.OpenField(ticket, field))
		if err != nil {
			return model, model.report(table.OpSaveField, err)
		}
		model.openModal(edit)
		model.editor.SetValue(edit.Value)
		return model, model.editor.Focus()

	case key.Matches(message, model.keys.ToggleStatus):
		return model, writeCmd(table.OpToggleStatus, func() error {
			_, err := model.engine.ToggleStatus(model.ctx, ticket.ID)
			return err
		})

	case key.Matches(message, model.keys.Satisfaction):
		model.satisfactionCursor = 0
		if ticket.Satisfaction != nil {
			for i, level := range domain.SatisfactionLevels {
				if level.Value == *ticket.Satisfaction {
					model.satisfactionCursor = i
				}
			}
		}
		model.openModal(view.Satisfaction{TicketID: ticket.ID})

	case key.Matches(message, model.keys.Copy):
		_, _ = model.engine.CopyProcessNumber(ticket.ID)
		return model, model.pullNotice()

	case key.Matches(message, model.keys.Delete):
		model.openModal(view.ConfirmDeleteOf(ticket.ID))
	}
	return model, nil
}

// handleFilterKeys edits the criterion of the focused column. The table
// follows every keystroke.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEnter, tea.KeyEsc:
		model.focusRegion = FocusTable
		model.input.Blur()
		return model, nil
	}

	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)
	criteria := withCriterion(model.view.Criteria, model.focusedField(), model.input.Value())
	model.engine.SetCriteria(criteria)
	model.refresh()
	return model, cmd
}

// handleInlineEditKeys edits the open inline edit. Enter commits, escape
// discards.
func (model Model) handleInlineEditKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.engine.CancelEdit()
		model.focusRegion = FocusTable
		model.input.Blur()
		model.refresh()
		return model, nil

	case tea.KeyEnter:
		if err := model.engine.SetPending(model.input.Value()); err != nil {
			model.focusRegion = FocusTable
			return model, model.report(table.OpInlineEdit, err)
		}
		return model, writeCmd(table.OpInlineEdit, func() error {
			_, err := model.engine.CommitEdit(model.ctx)
			return err
		})

	// Leaving the cell commits a changed value.
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if err := model.engine.SetPending(model.input.Value()); err != nil {
			model.focusRegion = FocusTable
			return model, model.report(table.OpInlineEdit, err)
		}
		return model, writeCmd(table.OpInlineEdit, func() error {
			return model.engine.LeaveEdit(model.ctx)
		})
	}

	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)
	return model, cmd
}

// handleWritten applies the outcome of an engine write to the focus and
// the open dialog.
func (model Model) handleWritten(message writtenMsg) (tea.Model, tea.Cmd) {
	if message.err == nil {
		switch message.operation {
		case table.OpInlineEdit:
			// A failed commit keeps the edit open for another try.
			model.focusRegion = FocusTable
			model.input.Blur()
		case table.OpAdd, table.OpSaveField:
			model.closeModal()
		}
	}
	model.refresh()
	return model, model.pullNotice()
}

// refresh re-derives the table from the engine.
func (model *Model) refresh() {
	model.view = model.engine.View()
	rows := make([]btable.Row, 0, len(model.view.Rows))
	for _, row := range model.view.Rows {
		rows = append(rows, renderRow(row))
	}
	model.grid.SetRows(rows)
	model.grid.SetHeight(model.view.PageSize + 1)
	if cursor := model.grid.Cursor(); cursor >= len(rows) {
		model.grid.SetCursor(max(0, len(rows)-1))
	}
}

// syncColumns re-renders the column headers around the focused column.
func (model *Model) syncColumns() {
	columns := []btable.Column{
		{Title: " ", Width: 1},
		{Title: "AGE", Width: 5},
	}
	for i, field := range domain.Columns {
		title := field.Label()
		if i == model.column {
			title = "[" + title + "]"
		}
		columns = append(columns, btable.Column{Title: title, Width: columnWidth(field)})
	}
	model.grid.SetColumns(columns)
}

func (model Model) focusedField() domain.Field {
	return domain.Columns[model.column]
}

func (model Model) currentRow() (table.Row, bool) {
	index := model.grid.Cursor()
	if index < 0 || index >= len(model.view.Rows) {
		return table.Row{}, false
	}
	return model.view.Rows[index], true
}

// pullNotice moves the newest engine notification to the status line.
func (model *Model) pullNotice() tea.Cmd {
	if model.inbox == nil {
		return nil
	}
	pending := model.inbox.Drain()
	if len(pending) == 0 {
		return nil
	}
	return model.show(pending[len(pending)-1])
}

// report shows an error raised outside the engine.
func (model *Model) report(operation string, err error) tea.Cmd {
	return model.show(table.Notification{
		Level:     table.LevelError,
		Operation: operation,
		Message:   errorMessage(err),
		At:        time.Now(),
	})
}

func (model *Model) succeed(operation, message string) tea.Cmd {
	return model.show(table.Notification{
		Level:     table.LevelSuccess,
		Operation: operation,
		Message:   message,
		At:        time.Now(),
	})
}

func (model *Model) show(notification table.Notification) tea.Cmd {
	notice := &notification
	model.notice = notice
	if model.noticeTTL <= 0 {
		return nil
	}
	return tea.Tick(model.noticeTTL, func(time.Time) tea.Msg {
		return noticeFadeMsg{notice: notice}
	})
}

func errorMessage(err error) string {
	var invalid *table.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}
	return err.Error()
}

// criterion returns the filter value of field. ok is false for fields
// that cannot be filtered.
func criterion(criteria filter.Criteria, field domain.Field) (string, bool) {
	switch field {
	case domain.FieldProcessNumber:
		return criteria.ProcessNumber, true
	case domain.FieldHandler:
		return criteria.Handler, true
	case domain.FieldOrganization:
		return criteria.Organization, true
	case domain.FieldOpenedOn:
		return criteria.OpenedOn, true
	case domain.FieldTags:
		return criteria.Tag, true
	case domain.FieldFunctionality:
		return criteria.Functionality, true
	}
	return "", false
}

func withCriterion(criteria filter.Criteria, field domain.Field, value string) filter.Criteria {
	switch field {
	case domain.FieldProcessNumber:
		criteria.ProcessNumber = value
	case domain.FieldHandler:
		criteria.Handler = value
	case domain.FieldOrganization:
		criteria.Organization = value
	case domain.FieldOpenedOn:
		criteria.OpenedOn = value
	case domain.FieldTags:
		criteria.Tag = value
	case domain.FieldFunctionality:
		criteria.Functionality = value
	}
	return criteria
}
