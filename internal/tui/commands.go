package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/table"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// Store calls run as commands so the table stays interactive while they
// are in flight. Each delivers one of the result messages below.

// loadedMsg is sent when the collection has been (re)loaded.
type loadedMsg struct {
	err error
}

// writtenMsg is sent when an engine write completes. The engine has
// already notified the outcome.
type writtenMsg struct {
	operation string
	err       error
}

// listsPurpose says which dialog asked for the custom lists.
type listsPurpose int

const (
	listsForAddForm listsPurpose = iota
	listsForManager
)

// listsMsg delivers the grouped custom lists.
type listsMsg struct {
	purpose listsPurpose
	groups  service.ListGroups
	err     error
}

// listsSavedMsg is sent when the custom list drafts were stored.
type listsSavedMsg struct {
	saved int
	err   error
}

// listDeletedMsg is sent when a custom list entry delete completes.
type listDeletedMsg struct {
	err error
}

// scriptsMsg delivers the script picker contents.
type scriptsMsg struct {
	scripts []domain.Script
	err     error
}

// scriptOpenedMsg delivers a script ready to fill.
type scriptOpenedMsg struct {
	fill view.ScriptFill
	err  error
}

// scriptUploadedMsg is sent when an uploaded script has been stored.
type scriptUploadedMsg struct {
	script *domain.Script
	err    error
}

// noticeFadeMsg clears the status line notice it was scheduled for.
type noticeFadeMsg struct {
	notice *table.Notification
}

func loadCmd(ctx context.Context, engine *table.Engine) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: engine.Load(ctx)}
	}
}

// writeCmd runs one engine write and reports its operation.
func writeCmd(operation string, write func() error) tea.Cmd {
	return func() tea.Msg {
		return writtenMsg{operation: operation, err: write()}
	}
}

func listsCmd(ctx context.Context, lists *service.ListService, purpose listsPurpose) tea.Cmd {
	return func() tea.Msg {
		groups, err := lists.Grouped(ctx)
		return listsMsg{purpose: purpose, groups: groups, err: err}
	}
}

func saveListsCmd(ctx context.Context, lists *service.ListService, values map[domain.ListField][]string) tea.Cmd {
	return func() tea.Msg {
		stored, err := lists.Save(ctx, values)
		return listsSavedMsg{saved: len(stored), err: err}
	}
}

func deleteListEntryCmd(ctx context.Context, lists *service.ListService, id string) tea.Cmd {
	return func() tea.Msg {
		_, err := lists.Delete(ctx, id, table.Confirmed)
		return listDeletedMsg{err: err}
	}
}

func scriptsCmd(ctx context.Context, scripts *service.ScriptService) tea.Cmd {
	return func() tea.Msg {
		list, err := scripts.List(ctx)
		return scriptsMsg{scripts: list, err: err}
	}
}

func openScriptCmd(ctx context.Context, scripts *service.ScriptService, id string) tea.Cmd {
	return func() tea.Msg {
		fill, err := scripts.Open(ctx, id)
		return scriptOpenedMsg{fill: fill, err: err}
	}
}

// uploadScriptCmd reads a local .txt file and stores it as a script.
func uploadScriptCmd(ctx context.Context, scripts *service.ScriptService, path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return scriptUploadedMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}
		created, err := scripts.Upload(ctx, filepath.Base(path), content)
		return scriptUploadedMsg{script: created, err: err}
	}
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements table.Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
