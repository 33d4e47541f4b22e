package tui

import (
	"fmt"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/script"
	"github.com/spec-kit/ticket-dashboard/internal/stats"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// columnWidth is the display width of a table column.
func columnWidth(field domain.Field) int {
	switch field {
	case domain.FieldProcessNumber, domain.FieldOrganization, domain.FieldFunctionality:
		return 16
	case domain.FieldOpenedOn, domain.FieldClosedOn:
		return 10
	case domain.FieldSummary:
		return 24
	case domain.FieldRequestText, domain.FieldResponseText:
		return 18
	case domain.FieldStatus:
		return 11
	case domain.FieldSatisfaction:
		return 12
	}
	return 12
}

// indicatorText renders the urgency badge of a row as text.
func indicatorText(indicator table.Indicator) string {
	switch indicator.Color {
	case table.StatusColorClosed:
		return "✓"
	case table.StatusColorAmber:
		return fmt.Sprintf("◔ %dd", *indicator.DaysElapsed)
	}
	if indicator.DaysElapsed == nil {
		return "● ?"
	}
	return fmt.Sprintf("● %dd", *indicator.DaysElapsed)
}

func satisfactionText(level *domain.Satisfaction) string {
	if level == nil {
		return ""
	}
	for _, candidate := range domain.SatisfactionLevels {
		if candidate.Value == *level {
			return candidate.Emoji + " " + candidate.Label
		}
	}
	return string(*level)
}

func renderRow(row table.Row) btable.Row {
	marker := " "
	if row.Selected {
		marker = "*"
	}
	cells := btable.Row{marker, indicatorText(row.Indicator)}
	for _, field := range domain.Columns {
		var text string
		switch field {
		case domain.FieldStatus:
			text = string(row.Ticket.EffectiveStatus())
		case domain.FieldSatisfaction:
			text = satisfactionText(row.Ticket.Satisfaction)
		default:
			text = strings.ReplaceAll(row.Ticket.Text(field), "\n", " ")
		}
		cells = append(cells, text)
	}
	return cells
}

// View implements tea.Model.
func (model Model) View() string {
	sections := []string{model.renderHeader()}
	switch model.focusRegion {
	case FocusFilter:
		sections = append(sections, "Filter "+model.input.View())
	case FocusInlineEdit:
		sections = append(sections, "Edit "+model.input.View()+model.theme.faintStyle().Render("  enter/tab save · esc cancel"))
	}
	if len(model.view.Rows) == 0 {
		sections = append(sections, model.theme.faintStyle().Render("No tickets match."))
	} else {
		sections = append(sections, model.grid.View())
	}
	sections = append(sections, model.renderFooter())
	if model.notice != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(model.theme.NotificationColor(model.notice.Level)).
			Bold(true).
			Render(model.notice.Message))
	}
	sections = append(sections, model.help.View(model.keys))
	base := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if model.focusRegion != FocusModal {
		return base
	}
	dialog := model.theme.modalStyle().Render(model.renderDialog())
	if model.width == 0 || model.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, base, dialog)
	}
	return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (model Model) renderHeader() string {
	title := model.theme.titleStyle().Render("Tickets")
	parts := []string{fmt.Sprintf("%s %d/%d", title, model.view.Matching, model.view.Total)}

	var filters []string
	for _, field := range domain.Columns {
		if value, ok := criterion(model.view.Criteria, field); ok && value != "" {
			filters = append(filters, fmt.Sprintf("%s~%q", field, value))
		}
	}
	if model.view.StatusColor != "" {
		color := lipgloss.NewStyle().Foreground(model.theme.StatusColor(model.view.StatusColor))
		filters = append(filters, color.Render(string(model.view.StatusColor)))
	}
	if len(filters) > 0 {
		parts = append(parts, "filter: "+strings.Join(filters, " "))
	}
	if model.view.SortField != "" {
		parts = append(parts, fmt.Sprintf("sort: %s %s", model.view.SortField, model.view.SortDirection))
	}
	if model.view.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", model.view.SelectedCount))
	}
	return strings.Join(parts, "  ·  ")
}

func (model Model) renderFooter() string {
	return model.theme.faintStyle().Render(fmt.Sprintf("page %d/%d  ·  %d per page",
		model.view.Page, model.view.TotalPages, model.view.PageSize))
}

// renderDialog renders the open dialog body.
func (model Model) renderDialog() string {
	faint := model.theme.faintStyle()
	title := model.theme.titleStyle()
	cursor := model.theme.cursorStyle()

	switch state := model.state.(type) {
	case view.ViewField:
		return lipgloss.JoinVertical(lipgloss.Left,
			title.Render(state.Field.Label()),
			state.Value,
			faint.Render("e edit · esc close"))

	case view.EditField:
		return lipgloss.JoinVertical(lipgloss.Left,
			title.Render("Edit "+state.Field.Label()),
			model.editor.View(),
			faint.Render("C-s save · esc cancel"))

	case view.AddForm:
		lines := []string{title.Render("New ticket")}
		for i, field := range addFormFields {
			if i == model.formCursor {
				lines = append(lines, model.input.View())
				if selector, ok := formSelectors[field]; ok && len(state.Options[selector]) > 0 {
					lines = append(lines, faint.Render("  options: "+strings.Join(state.Options[selector], ", ")))
				}
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %s", field.Label(), state.Draft.Text(field)))
		}
		lines = append(lines, faint.Render("Tab next · C-o option · C-s save · esc cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case view.ManageLists:
		field := domain.ListFields[model.listField]
		tabs := make([]string, 0, len(domain.ListFields))
		for i, candidate := range domain.ListFields {
			label := string(candidate)
			if i == model.listField {
				label = cursor.Render(label)
			}
			tabs = append(tabs, label)
		}
		lines := []string{title.Render("Custom lists"), strings.Join(tabs, "  ")}
		for i, entry := range model.groups[field] {
			line := "  " + entry.Value
			if i == model.listCursor {
				line = cursor.Render("> " + entry.Value)
			}
			lines = append(lines, line)
		}
		if model.pendingListDelete != "" {
			lines = append(lines, "Delete this list entry? y/n")
		}
		lines = append(lines,
			faint.Render("New values, one per line:"),
			model.editor.View(),
			faint.Render("Tab field · C-n/C-p entry · C-d delete · C-s save · esc close"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case view.Statistics:
		tickets := model.engine.Tickets()
		lines := []string{}
		if state.Tab == view.StatsOrganizations {
			lines = append(lines, title.Render("Tickets by organization"))
			report := stats.ByOrganization(tickets)
			for _, count := range report.Counts {
				lines = append(lines, fmt.Sprintf("%-24s %4d %s", count.Organization, count.Count, bar(count.Count, report.Total)))
			}
			lines = append(lines, fmt.Sprintf("%-24s %4d", "Total", report.Total))
		} else {
			lines = append(lines, title.Render("Handling time"))
			report := stats.HandlingTime(tickets)
			if report.MeanDays == nil {
				lines = append(lines, "No closed tickets with both dates.")
			} else {
				lines = append(lines, fmt.Sprintf("Mean %.1f days over %d tickets", *report.MeanDays, report.Samples))
			}
			for _, bucket := range report.Buckets {
				lines = append(lines, fmt.Sprintf("%-6s days %4d %s", bucket.Label, bucket.Count, bar(bucket.Count, report.Samples)))
			}
		}
		lines = append(lines, faint.Render("Tab switch · esc close"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case view.Satisfaction:
		lines := []string{title.Render("Requester satisfaction")}
		for i, level := range domain.SatisfactionLevels {
			line := fmt.Sprintf("  %s %s", level.Emoji, level.Label)
			if i == model.satisfactionCursor {
				line = cursor.Render(fmt.Sprintf("> %s %s", level.Emoji, level.Label))
			}
			lines = append(lines, line)
		}
		lines = append(lines, faint.Render("enter choose · esc cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case view.ScriptPicker:
		lines := []string{title.Render("Scripts")}
		if len(model.scriptList) == 0 {
			lines = append(lines, faint.Render("No scripts yet."))
		}
		for i, item := range model.scriptList {
			line := "  " + item.Name
			if i == model.scriptCursor {
				line = cursor.Render("> " + item.Name)
			}
			lines = append(lines, line)
		}
		if model.uploading {
			lines = append(lines, model.input.View())
		}
		lines = append(lines, faint.Render("enter open · u upload .txt · esc close"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)

	case view.ScriptFill:
		return model.renderFill(state)

	case view.ScriptResult:
		return lipgloss.JoinVertical(lipgloss.Left,
			title.Render(state.Name),
			state.Text,
			faint.Render("y copy · esc close"))

	case view.ConfirmDelete:
		prompt := "Delete this ticket?"
		if state.Bulk {
			prompt = fmt.Sprintf("Delete %d selected tickets?", len(state.TicketIDs))
		}
		return lipgloss.JoinVertical(lipgloss.Left, title.Render(prompt), faint.Render("y yes · n no"))
	}
	return ""
}

// renderFill shows the template with its placeholders filled in; the
// placeholder under the cursor is highlighted.
func (model Model) renderFill(fill view.ScriptFill) string {
	cursor := model.theme.cursorStyle()
	indexes := placeholders(fill.Template)
	var body strings.Builder
	for i, part := range fill.Template.Parts {
		if part.Kind == script.PartText {
			body.WriteString(part.Text)
			continue
		}
		value := fill.Values[i]
		if value == "" {
			value = "…"
		}
		if len(indexes) > 0 && indexes[model.fillCursor] == i {
			value = cursor.Render(value)
		}
		body.WriteString(value)
	}
	lines := []string{model.theme.titleStyle().Render(fill.Name), body.String()}
	if len(indexes) > 0 && fill.Template.Parts[indexes[model.fillCursor]].Kind == script.PartInput {
		lines = append(lines, model.input.View())
	}
	lines = append(lines, model.theme.faintStyle().Render("Tab next · ←/→ choose · enter generate · esc close"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// bar renders count as a share of total, twenty cells wide.
func bar(count, total int) string {
	if total == 0 {
		return ""
	}
	return strings.Repeat("█", count*20/total)
}
