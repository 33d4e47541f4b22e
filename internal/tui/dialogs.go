package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/script"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// addFormFields are the inputs of the add form in tab order.
var addFormFields = []domain.Field{
	domain.FieldProcessNumber,
	domain.FieldOpenedOn,
	domain.FieldOrganization,
	domain.FieldHandler,
	domain.FieldFunctionality,
	domain.FieldSummary,
	domain.FieldRequestText,
	domain.FieldResponseText,
	domain.FieldTags,
}

// formSelectors maps add form fields to the custom list offering values.
var formSelectors = map[domain.Field]domain.ListField{
	domain.FieldOrganization:  domain.ListFieldOrganization,
	domain.FieldHandler:       domain.ListFieldHandler,
	domain.FieldFunctionality: domain.ListFieldFunctionality,
	domain.FieldTags:          domain.ListFieldTag,
}

func (model *Model) openModal(state view.State) {
	model.state = state
	model.focusRegion = FocusModal
}

func (model *Model) closeModal() {
	model.state = view.Close(model.state)
	model.focusRegion = FocusTable
	model.uploading = false
	model.pendingListDelete = ""
	model.input.Blur()
	model.editor.Blur()
}

// handleModalKeys routes input to the open dialog.
func (model Model) handleModalKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch state := model.state.(type) {
	case view.ViewField:
		switch {
		case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
			model.closeModal()
		case key.Matches(message, model.keys.FullEdit):
			edit, err := view.Escalate(state)
			if err != nil {
				return model, model.report(table.OpSaveField, err)
			}
			if !edit.Field.IsFreeText() && edit.Field != domain.FieldTags {
				return model, model.report(table.OpSaveField, fmt.Errorf("%w: %s", table.ErrFieldNotEditable, edit.Field))
			}
			model.state = edit
			model.editor.SetValue(edit.Value)
			return model, model.editor.Focus()
		}

	case view.EditField:
		switch {
		case key.Matches(message, model.keys.Back):
			model.closeModal()
		case key.Matches(message, model.keys.Submit):
			value := model.editor.Value()
			return model, writeCmd(table.OpSaveField, func() error {
				_, err := model.engine.SaveField(model.ctx, state.TicketID, state.Field, value)
				return err
			})
		default:
			var cmd tea.Cmd
			model.editor, cmd = model.editor.Update(message)
			return model, cmd
		}

	case view.AddForm:
		return model.handleAddFormKeys(state, message)

	case view.ManageLists:
		return model.handleListKeys(state, message)

	case view.Statistics:
		switch {
		case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
			model.closeModal()
		case key.Matches(message, model.keys.Next), key.Matches(message, model.keys.Prev):
			if state.Tab == view.StatsOrganizations {
				state.Tab = view.StatsHandlingTime
			} else {
				state.Tab = view.StatsOrganizations
			}
			model.state = state
		}

	case view.Satisfaction:
		switch {
		case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
			model.closeModal()
		case key.Matches(message, model.keys.Up):
			model.satisfactionCursor = max(0, model.satisfactionCursor-1)
		case key.Matches(message, model.keys.Down):
			model.satisfactionCursor = min(len(domain.SatisfactionLevels)-1, model.satisfactionCursor+1)
		case key.Matches(message, model.keys.Open):
			level := domain.SatisfactionLevels[model.satisfactionCursor].Value
			model.closeModal()
			return model, writeCmd(table.OpSetSatisfaction, func() error {
				_, err := model.engine.SetSatisfaction(model.ctx, state.TicketID, level)
				return err
			})
		}

	case view.ScriptPicker:
		return model.handlePickerKeys(state, message)

	case view.ScriptFill:
		return model.handleFillKeys(state, message)

	case view.ScriptResult:
		switch {
		case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
			model.closeModal()
		case key.Matches(message, model.keys.Copy):
			if err := model.clipboard.WriteAll(state.Text); err != nil {
				return model, model.report("copy script", err)
			}
			return model, model.succeed("copy script", "Script copied")
		}

	case view.ConfirmDelete:
		switch {
		case key.Matches(message, model.keys.Confirm):
			model.closeModal()
			if state.Bulk {
				return model, writeCmd(table.OpDeleteSelected, func() error {
					_, err := model.engine.DeleteSelected(model.ctx, table.Confirmed)
					return err
				})
			}
			id := state.TicketIDs[0]
			return model, writeCmd(table.OpDelete, func() error {
				_, err := model.engine.Delete(model.ctx, id, table.Confirmed)
				return err
			})
		case key.Matches(message, model.keys.Decline):
			model.closeModal()
		}

	default:
		model.closeModal()
	}
	return model, nil
}

// handleAddFormKeys edits the draft one field at a time. The text input
// holds the field under the cursor; it is written back to the draft on
// every keystroke.
func (model Model) handleAddFormKeys(form view.AddForm, message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()
		return model, nil

	case key.Matches(message, model.keys.Next):
		model.moveFormCursor(form, 1)
		return model, nil

	case key.Matches(message, model.keys.Prev):
		model.moveFormCursor(form, -1)
		return model, nil

	case key.Matches(message, model.keys.Cycle):
		field := addFormFields[model.formCursor]
		selector, ok := formSelectors[field]
		if !ok || len(form.Options[selector]) == 0 {
			return model, nil
		}
		options := form.Options[selector]
		next := options[(slices.Index(options, model.input.Value())+1)%len(options)]
		model.input.SetValue(next)
		model.input.CursorEnd()

	case key.Matches(message, model.keys.Submit):
		draft := form.Draft
		return model, writeCmd(table.OpAdd, func() error {
			_, err := model.engine.Add(model.ctx, draft)
			return err
		})

	default:
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		model.state = withFormValue(form, addFormFields[model.formCursor], model.input.Value())
		return model, cmd
	}

	model.state = withFormValue(form, addFormFields[model.formCursor], model.input.Value())
	return model, nil
}

func (model *Model) moveFormCursor(form view.AddForm, delta int) {
	model.formCursor = (model.formCursor + delta + len(addFormFields)) % len(addFormFields)
	field := addFormFields[model.formCursor]
	model.input.Prompt = field.Label() + ": "
	model.input.SetValue(form.Draft.Text(field))
	model.input.CursorEnd()
}

func withFormValue(form view.AddForm, field domain.Field, value string) view.AddForm {
	changes := domain.Changes{field: value}
	if field == domain.FieldTags {
		changes = domain.Changes{field: domain.ParseTags(value)}
	}
	draft := form.Draft.Clone()
	if err := draft.Apply(changes); err == nil {
		form.Draft = draft
	}
	return form
}

// handleLists opens the dialog that asked for the custom lists.
func (model Model) handleLists(message listsMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.report("lists", message.err)
	}
	model.groups = message.groups

	switch message.purpose {
	case listsForAddForm:
		model.openModal(view.OpenAddForm(message.groups.Values()))
		model.formCursor = 0
		model.input.Prompt = addFormFields[0].Label() + ": "
		model.input.SetValue("")
		return model, model.input.Focus()

	case listsForManager:
		state, ok := model.state.(view.ManageLists)
		if !ok {
			state = view.ManageLists{Drafts: make(map[domain.ListField]string)}
			model.listField = 0
			model.editor.SetValue("")
		}
		model.listCursor = min(model.listCursor, max(0, len(model.currentEntries())-1))
		model.openModal(state)
		return model, model.editor.Focus()
	}
	return model, nil
}

// handleListKeys drives the custom lists manager. The editor holds the
// draft of the selected classifier, one value per line.
func (model Model) handleListKeys(state view.ManageLists, message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.pendingListDelete != "" {
		id := model.pendingListDelete
		switch {
		case key.Matches(message, model.keys.Confirm):
			model.pendingListDelete = ""
			return model, deleteListEntryCmd(model.ctx, model.lists, id)
		case key.Matches(message, model.keys.Decline):
			model.pendingListDelete = ""
		}
		return model, nil
	}

	field := domain.ListFields[model.listField]
	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()

	case key.Matches(message, model.keys.Next), key.Matches(message, model.keys.Prev):
		delta := 1
		if key.Matches(message, model.keys.Prev) {
			delta = -1
		}
		state = withDraft(state, field, model.editor.Value())
		model.listField = (model.listField + delta + len(domain.ListFields)) % len(domain.ListFields)
		model.listCursor = 0
		model.editor.SetValue(state.Drafts[domain.ListFields[model.listField]])
		model.state = state

	case key.Matches(message, model.keys.EntryUp):
		model.listCursor = max(0, model.listCursor-1)

	case key.Matches(message, model.keys.EntryDown):
		model.listCursor = min(max(0, len(model.currentEntries())-1), model.listCursor+1)

	case key.Matches(message, model.keys.EntryDelete):
		entries := model.currentEntries()
		if model.listCursor < len(entries) {
			model.pendingListDelete = entries[model.listCursor].ID
		}

	case key.Matches(message, model.keys.Submit):
		state = withDraft(state, field, model.editor.Value())
		model.state = state
		values := make(map[domain.ListField][]string, len(state.Drafts))
		for listField, draft := range state.Drafts {
			values[listField] = service.SplitDraft(draft)
		}
		return model, saveListsCmd(model.ctx, model.lists, values)

	default:
		var cmd tea.Cmd
		model.editor, cmd = model.editor.Update(message)
		return model, cmd
	}
	return model, nil
}

func (model Model) handleListsSaved(message listsSavedMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.report("save lists", message.err)
	}
	if _, ok := model.state.(view.ManageLists); ok {
		model.state = view.ManageLists{Drafts: make(map[domain.ListField]string)}
		model.editor.SetValue("")
	}
	return model, tea.Batch(
		model.succeed("save lists", fmt.Sprintf("%d list values saved", message.saved)),
		listsCmd(model.ctx, model.lists, listsForManager),
	)
}

func withDraft(state view.ManageLists, field domain.ListField, draft string) view.ManageLists {
	drafts := make(map[domain.ListField]string, len(state.Drafts)+1)
	for k, v := range state.Drafts {
		drafts[k] = v
	}
	drafts[field] = draft
	return view.ManageLists{Drafts: drafts}
}

func (model Model) currentEntries() []domain.ListEntry {
	return model.groups[domain.ListFields[model.listField]]
}

func (model Model) handleScripts(message scriptsMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.report("scripts", message.err)
	}
	model.scriptList = message.scripts
	model.scriptCursor = min(model.scriptCursor, max(0, len(message.scripts)-1))
	model.uploading = false
	model.openModal(view.ScriptPicker{})
	return model, nil
}

// handlePickerKeys moves through the scripts; u prompts for a .txt file
// to upload.
func (model Model) handlePickerKeys(state view.ScriptPicker, message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.uploading {
		switch message.Type {
		case tea.KeyEsc:
			model.uploading = false
			model.input.Blur()
			return model, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(model.input.Value())
			model.uploading = false
			model.input.Blur()
			if path == "" {
				return model, nil
			}
			return model, uploadScriptCmd(model.ctx, model.scripts, path)
		}
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		return model, cmd
	}

	switch {
	case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
		model.closeModal()
	case key.Matches(message, model.keys.Up):
		model.scriptCursor = max(0, model.scriptCursor-1)
	case key.Matches(message, model.keys.Down):
		model.scriptCursor = min(max(0, len(model.scriptList)-1), model.scriptCursor+1)
	case key.Matches(message, model.keys.Upload):
		model.uploading = true
		model.input.Prompt = "File: "
		model.input.SetValue("")
		return model, model.input.Focus()
	case key.Matches(message, model.keys.Open):
		if model.scriptCursor < len(model.scriptList) {
			return model, openScriptCmd(model.ctx, model.scripts, model.scriptList[model.scriptCursor].ID)
		}
	}
	model.state = state
	return model, nil
}

func (model Model) handleScriptOpened(message scriptOpenedMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.report("open script", message.err)
	}
	if _, ok := model.state.(view.ScriptPicker); !ok {
		return model, nil
	}
	model.openModal(message.fill)
	model.fillCursor = 0
	return model, model.focusPlaceholder(message.fill)
}

// placeholders returns the part indexes of the template's placeholders.
func placeholders(tmpl script.Template) []int {
	var indexes []int
	for i, part := range tmpl.Parts {
		if part.Kind != script.PartText {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// focusPlaceholder loads the placeholder under the cursor into the text
// input when it takes free text.
func (model *Model) focusPlaceholder(fill view.ScriptFill) tea.Cmd {
	indexes := placeholders(fill.Template)
	if len(indexes) == 0 {
		model.input.Blur()
		return nil
	}
	index := indexes[model.fillCursor]
	if fill.Template.Parts[index].Kind != script.PartInput {
		model.input.Blur()
		return nil
	}
	model.input.Prompt = fmt.Sprintf("#%d: ", model.fillCursor+1)
	model.input.SetValue(fill.Values[index])
	model.input.CursorEnd()
	return model.input.Focus()
}

// handleFillKeys collects placeholder values. Tab moves between
// placeholders, left and right cycle choices and enter generates the text.
func (model Model) handleFillKeys(fill view.ScriptFill, message tea.KeyMsg) (tea.Model, tea.Cmd) {
	indexes := placeholders(fill.Template)

	switch {
	case key.Matches(message, model.keys.Back):
		model.closeModal()
		return model, nil

	case message.Type == tea.KeyEnter:
		result, err := view.Generate(fill)
		if err != nil {
			return model, model.report("generate script", err)
		}
		model.input.Blur()
		model.state = result
		return model, nil
	}

	if len(indexes) == 0 {
		return model, nil
	}
	index := indexes[model.fillCursor]
	part := fill.Template.Parts[index]

	switch {
	case key.Matches(message, model.keys.Next), key.Matches(message, model.keys.Prev):
		delta := 1
		if key.Matches(message, model.keys.Prev) {
			delta = -1
		}
		model.fillCursor = (model.fillCursor + delta + len(indexes)) % len(indexes)
		return model, model.focusPlaceholder(fill)

	case part.Kind == script.PartChoice &&
		(key.Matches(message, model.keys.ColumnLeft) || key.Matches(message, model.keys.ColumnRight)):
		delta := 1
		if key.Matches(message, model.keys.ColumnLeft) {
			delta = -1
		}
		current := slices.Index(part.Options, fill.Values[index])
		next := part.Options[(current+delta+len(part.Options))%len(part.Options)]
		filled, err := fill.Fill(index, next)
		if err != nil {
			return model, model.report("fill script", err)
		}
		model.state = filled

	case part.Kind == script.PartInput:
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		filled, err := fill.Fill(index, model.input.Value())
		if err != nil {
			return model, model.report("fill script", err)
		}
		model.state = filled
		return model, cmd
	}
	return model, nil
}
