package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// Theme defines the color palette of the dashboard. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Urgency indicator colors.
	Closed lipgloss.Color
	Amber  lipgloss.Color
	Red    lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color
	SuccessText      lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	Closed:             lipgloss.Color("35"),
	Amber:              lipgloss.Color("214"),
	Red:                lipgloss.Color("196"),
	HeaderForeground:   lipgloss.Color("117"),
	BorderColor:        lipgloss.Color("240"),
	HelpText:           lipgloss.Color("245"),
	ErrorText:          lipgloss.Color("203"),
	SuccessText:        lipgloss.Color("78"),
}

// StatusColor returns the color of an urgency class.
func (theme Theme) StatusColor(color table.StatusColor) lipgloss.Color {
	switch color {
	case table.StatusColorClosed:
		return theme.Closed
	case table.StatusColorAmber:
		return theme.Amber
	case table.StatusColorRed:
		return theme.Red
	}
	return theme.FaintText
}

// NotificationColor returns the color of a notification level.
func (theme Theme) NotificationColor(level table.Level) lipgloss.Color {
	if level == table.LevelError {
		return theme.ErrorText
	}
	return theme.SuccessText
}

func (theme Theme) modalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Foreground(theme.NormalText).
		Padding(0, 1)
}

func (theme Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
}

func (theme Theme) faintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FaintText)
}

func (theme Theme) cursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground).
		Bold(true)
}
