// Package view models which dialog of the dashboard is open. Exactly one
// state is active at a time; NoModal means only the table is shown.
package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/script"
)

// ErrInvalidTransition is returned when an action does not apply to the
// current state.
var ErrInvalidTransition = errors.New("invalid view transition")

// Kind names a state.
type Kind string

const (
	KindNoModal       Kind = "none"
	KindAddForm       Kind = "add_form"
	KindViewField     Kind = "view_field"
	KindEditField     Kind = "edit_field"
	KindManageLists   Kind = "manage_lists"
	KindStatistics    Kind = "statistics"
	KindSatisfaction  Kind = "satisfaction"
	KindScriptPicker  Kind = "script_picker"
	KindScriptFill    Kind = "script_fill"
	KindScriptResult  Kind = "script_result"
	KindConfirmDelete Kind = "confirm_delete"
)

// State is one of the types in this package.
type State interface {
	Kind() Kind
	state()
}

// NoModal shows the table alone.
type NoModal struct{}

// AddForm collects a new ticket. Options feed the selectors from the
// custom lists.
type AddForm struct {
	Draft   domain.Ticket
	Options map[domain.ListField][]string
}

// ViewField shows the full value of one cell.
type ViewField struct {
	TicketID string
	Field    domain.Field
	Value    string
}

// EditField edits one field in the full editor.
type EditField struct {
	TicketID string
	Field    domain.Field
	Value    string
}

// ManageLists edits the custom lists. Drafts hold the pending new values
// per classifier, one per line.
type ManageLists struct {
	Drafts map[domain.ListField]string
}

// StatsTab selects the statistic shown.
type StatsTab string

const (
	StatsOrganizations StatsTab = "organizations"
	StatsHandlingTime  StatsTab = "handling_time"
)

// Statistics shows one statistic.
type Statistics struct {
	Tab StatsTab
}

// Satisfaction picks a rating for a ticket.
type Satisfaction struct {
	TicketID string
}

// ScriptPicker lists the scripts.
type ScriptPicker struct{}

// ScriptFill collects placeholder values for a script.
type ScriptFill struct {
	ScriptID string
	Name     string
	Template script.Template
	Values   map[int]string
}

// ScriptResult shows rendered text ready to copy.
type ScriptResult struct {
	Name string
	Text string
}

// ConfirmDelete asks before deleting tickets.
type ConfirmDelete struct {
	TicketIDs []string
	Bulk      bool
}

func (NoModal) Kind() Kind { return KindNoModal }
func (AddForm) Kind() Kind { return KindAddForm }
func (ViewField) Kind() Kind { return KindViewField }
func (EditField) Kind() Kind { return KindEditField }
func (ManageLists) Kind() Kind { return KindManageLists }
func (Statistics) Kind() Kind { return KindStatistics }
func (Satisfaction) Kind() Kind { return KindSatisfaction }
func (ScriptPicker) Kind() Kind { return KindScriptPicker }
func (ScriptFill) Kind() Kind { return KindScriptFill }
func (ScriptResult) Kind() Kind { return KindScriptResult }
func (ConfirmDelete) Kind() Kind { return KindConfirmDelete }

func (NoModal) state() {}
func (AddForm) state() {}
func (ViewField) state() {}
func (EditField) state() {}
func (ManageLists) state() {}
func (Statistics) state() {}
func (Satisfaction) state() {}
func (ScriptPicker) state() {}
func (ScriptFill) state() {}
func (ScriptResult) state() {}
func (ConfirmDelete) state() {}

// Close returns to the table.
func Close(State) State {
	return NoModal{}
}

// OpenAddForm starts an empty draft. Options are grouped custom list values.
func OpenAddForm(options map[domain.ListField][]string) AddForm {
	return AddForm{Draft: domain.Ticket{Status: domain.TicketStatusInProgress}, Options: options}
}

// OpenField shows the value of a ticket field.
func OpenField(ticket domain.Ticket, field domain.Field) ViewField {
	return ViewField{TicketID: ticket.ID, Field: field, Value: ticket.Text(field)}
}

// Escalate turns a read-only field view into the full editor.
func Escalate(s State) (EditField, error) {
	v, ok := s.(ViewField)
	if !ok {
		return EditField{}, fmt.Errorf("%w: escalate from %s", ErrInvalidTransition, s.Kind())
	}
	return EditField{TicketID: v.TicketID, Field: v.Field, Value: v.Value}, nil
}

// PickScript opens the fill dialog for a script with default values.
func PickScript(s State, picked domain.Script) (ScriptFill, error) {
	if _, ok := s.(ScriptPicker); !ok {
		return ScriptFill{}, fmt.Errorf("%w: pick script from %s", ErrInvalidTransition, s.Kind())
	}
	tmpl := script.Parse(picked.RawTemplate)
	values := make(map[int]string)
	for i, value := range tmpl.Defaults() {
		if tmpl.Parts[i].Kind != script.PartText {
			values[i] = value
		}
	}
	return ScriptFill{ScriptID: picked.ID, Name: picked.Name, Template: tmpl, Values: values}, nil
}

// Fill sets the value of placeholder index. Choices must be one of their
// options.
func (f ScriptFill) Fill(index int, value string) (ScriptFill, error) {
	if index < 0 || index >= len(f.Template.Parts) {
		return f, fmt.Errorf("placeholder %d out of range", index)
	}
	part := f.Template.Parts[index]
	switch part.Kind {
	case script.PartText:
		return f, fmt.Errorf("part %d is not a placeholder", index)
	case script.PartChoice:
		if !slices.Contains(part.Options, value) {
			return f, fmt.Errorf("%q is not an option of placeholder %d", value, index)
		}
	}
	values := make(map[int]string, len(f.Values)+1)
	for i, v := range f.Values {
		values[i] = v
	}
	values[index] = value
	f.Values = values
	return f, nil
}

// Generate renders the filled script.
func Generate(s State) (ScriptResult, error) {
	f, ok := s.(ScriptFill)
	if !ok {
		return ScriptResult{}, fmt.Errorf("%w: generate from %s", ErrInvalidTransition, s.Kind())
	}
	return ScriptResult{Name: f.Name, Text: f.Template.Render(f.Values)}, nil
}

// ConfirmDeleteOf asks to delete one ticket.
func ConfirmDeleteOf(id string) ConfirmDelete {
	return ConfirmDelete{TicketIDs: []string{id}}
}

// ConfirmBulkDelete asks to delete the selection. It refuses an empty one.
func ConfirmBulkDelete(ids []string) (ConfirmDelete, error) {
	if len(ids) == 0 {
		return ConfirmDelete{}, fmt.Errorf("%w: nothing selected", ErrInvalidTransition)
	}
	return ConfirmDelete{TicketIDs: slices.Clone(ids), Bulk: true}, nil
}
