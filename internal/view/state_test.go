package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func TestEscalate(t *testing.T) {
	ticket := domain.Ticket{ID: "t1", Summary: "Printer on fire"}
	opened := OpenField(ticket, domain.FieldSummary)
	require.Equal(t, KindViewField, opened.Kind())

	edit, err := Escalate(opened)
	require.NoError(t, err)
	require.Equal(t, EditField{TicketID: "t1", Field: domain.FieldSummary, Value: "Printer on fire"}, edit)

	_, err = Escalate(NoModal{})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestScriptFlow(t *testing.T) {
	picked := domain.Script{ID: "s1", Name: "Closing", RawTemplate: "Hi (), ticket {[solved][rejected]}."}

	_, err := PickScript(NoModal{}, picked)
	require.ErrorIs(t, err, ErrInvalidTransition)

	fill, err := PickScript(ScriptPicker{}, picked)
	require.NoError(t, err)
	require.Equal(t, map[int]string{1: "", 3: "solved"}, fill.Values)

	fill, err = fill.Fill(1, "Ana")
	require.NoError(t, err)
	_, err = fill.Fill(3, "maybe")
	require.Error(t, err)
	_, err = fill.Fill(0, "x")
	require.Error(t, err)
	_, err = fill.Fill(9, "x")
	require.Error(t, err)
	fill, err = fill.Fill(3, "rejected")
	require.NoError(t, err)

	result, err := Generate(fill)
	require.NoError(t, err)
	require.Equal(t, ScriptResult{Name: "Closing", Text: "Hi Ana, ticket rejected."}, result)

	_, err = Generate(result)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFillDoesNotAliasValues(t *testing.T) {
	fill, err := PickScript(ScriptPicker{}, domain.Script{RawTemplate: "()"})
	require.NoError(t, err)

	changed, err := fill.Fill(0, "new")
	require.NoError(t, err)
	require.Equal(t, "", fill.Values[0])
	require.Equal(t, "new", changed.Values[0])
}

func TestConfirmBulkDelete(t *testing.T) {
	_, err := ConfirmBulkDelete(nil)
	require.ErrorIs(t, err, ErrInvalidTransition)

	confirm, err := ConfirmBulkDelete([]string{"a", "b"})
	require.NoError(t, err)
	require.True(t, confirm.Bulk)
	require.Equal(t, KindConfirmDelete, confirm.Kind())

	require.Equal(t, NoModal{}, Close(confirm))
	require.False(t, ConfirmDeleteOf("a").Bulk)
}

func TestOpenAddForm(t *testing.T) {
	form := OpenAddForm(map[domain.ListField][]string{domain.ListFieldHandler: {"dana"}})
	require.Equal(t, domain.TicketStatusInProgress, form.Draft.Status)
	require.Equal(t, []string{"dana"}, form.Options[domain.ListFieldHandler])
}
