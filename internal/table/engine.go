package table

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

// PageSizes are the page sizes a table can display.
var PageSizes = []int{5, 10, 15, 20}

// DefaultPageSize is used when no valid page size is configured.
const DefaultPageSize = 10

// Operation names reported in notifications and write errors.
const (
	OpLoad            = "load"
	OpAdd             = "add"
	OpInlineEdit      = "inline_edit"
	OpSaveField       = "save_field"
	OpToggleStatus    = "toggle_status"
	OpSetSatisfaction = "set_satisfaction"
	OpDelete          = "delete"
	OpDeleteSelected  = "delete_selected"
	OpCopy            = "copy_process_number"
)

// Dependencies bundles collaborators of an Engine. Only Tickets is required.
type Dependencies struct {
	Tickets         repository.TicketRepository
	Notifier        Notifier
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	Clock           func() time.Time
	Locale          language.Tag
	Clipboard       Clipboard
	DefaultPageSize int
	// SessionID tags published events.
	SessionID string
}

// Engine holds the ticket collection of one dashboard session and derives
// the visible table from it. Mutations are applied to the cache only after
// the store confirms them. The lock is never held across store calls.
type Engine struct {
	tickets    repository.TicketRepository
	notifier   Notifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      func() time.Time
	clipboard  Clipboard
	sessionID  string
	validate   *validator.Validate

	mu          sync.Mutex
	collator    *collate.Collator
	collection  []domain.Ticket
	criteria    filter.Criteria
	statusColor StatusColor
	sortField   domain.Field
	sortDesc    bool
	page        int
	pageSize    int
	selected    map[string]struct{}
	edit        *InlineEdit
}

// NewEngine constructs an engine with an empty collection.
func NewEngine(deps Dependencies) *Engine {
	e := &Engine{
		tickets:    deps.Tickets,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		clock:      deps.Clock,
		clipboard:  deps.Clipboard,
		sessionID:  deps.SessionID,
		validate:   newDraftValidator(),
		collator:   collate.New(deps.Locale),
		page:       1,
		pageSize:   DefaultPageSize,
		selected:   make(map[string]struct{}),
	}
	if e.notifier == nil {
		e.notifier = discardNotifier{}
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if validPageSize(deps.DefaultPageSize) {
		e.pageSize = deps.DefaultPageSize
	}
	return e
}

func validPageSize(size int) bool {
	return slices.Contains(PageSizes, size)
}

// Load replaces the cached collection with the store's contents. Selection
// entries and an inline edit that refer to vanished tickets are dropped.
func (e *Engine) Load(ctx context.Context) error {
	tickets, err := e.tickets.FetchAll(ctx)
	if err != nil {
		e.logger.Error("load tickets", zap.Error(err))
		e.notify(LevelError, OpLoad, fmt.Sprintf("Could not load tickets: %v", err))
		return fmt.Errorf("load tickets: %w", err)
	}

	collection := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		collection = append(collection, ticket.Clone())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.collection = collection
	for id := range e.selected {
		if e.indexLocked(id) < 0 {
			delete(e.selected, id)
		}
	}
	if e.edit != nil && e.indexLocked(e.edit.TicketID) < 0 {
		e.edit = nil
	}
	return nil
}

// Tickets returns a copy of the whole cached collection in store order.
func (e *Engine) Tickets() []domain.Ticket {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Ticket, 0, len(e.collection))
	for _, ticket := range e.collection {
		out = append(out, ticket.Clone())
	}
	return out
}

// Ticket returns one cached ticket.
func (e *Engine) Ticket(id string) (domain.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexLocked(id)
	if idx < 0 {
		return domain.Ticket{}, ErrNotFound
	}
	return e.collection[idx].Clone(), nil
}

// Settings is the serialisable view configuration of an engine.
type Settings struct {
	Criteria       filter.Criteria `json:"criteria"`
	StatusColor    StatusColor     `json:"status_color,omitempty"`
	SortField      domain.Field    `json:"sort_field,omitempty"`
	SortDescending bool            `json:"sort_descending,omitempty"`
	Page           int             `json:"page"`
	PageSize       int             `json:"page_size"`
	Selected       []string        `json:"selected,omitempty"`
}

// Settings exports the current view configuration.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Settings{
		Criteria:       e.criteria,
		StatusColor:    e.statusColor,
		SortField:      e.sortField,
		SortDescending: e.sortDesc,
		Page:           e.page,
		PageSize:       e.pageSize,
		Selected:       e.selectedIDsLocked(),
	}
}

// Restore imports a view configuration. Call it after Load: selected ids
// that are not in the collection are ignored.
func (e *Engine) Restore(settings Settings) error {
	if _, err := ParseStatusColor(string(settings.StatusColor)); err != nil {
		return err
	}
	if settings.SortField != "" {
		if _, err := domain.ParseField(string(settings.SortField)); err != nil {
			return err
		}
	}
	if settings.PageSize != 0 && !validPageSize(settings.PageSize) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, settings.PageSize)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.criteria = settings.Criteria
	e.statusColor = settings.StatusColor
	e.sortField = settings.SortField
	e.sortDesc = settings.SortField != "" && settings.SortDescending
	if settings.PageSize != 0 {
		e.pageSize = settings.PageSize
	}
	e.page = max(1, settings.Page)
	e.selected = make(map[string]struct{}, len(settings.Selected))
	for _, id := range settings.Selected {
		if e.indexLocked(id) >= 0 {
			e.selected[id] = struct{}{}
		}
	}
	return nil
}

func (e *Engine) indexLocked(id string) int {
	return slices.IndexFunc(e.collection, func(t domain.Ticket) bool { return t.ID == id })
}

func (e *Engine) notify(level Level, operation, message string) {
	e.notifier.Notify(Notification{
		Level:     level,
		Operation: operation,
		Message:   message,
		At:        e.clock(),
	})
}

// fail reports a rejected store call and wraps it for the caller.
func (e *Engine) fail(operation string, err error) error {
	e.logger.Warn("remote write failed",
		zap.String("operation", operation),
		zap.String("session_id", e.sessionID),
		zap.Error(err),
	)
	e.notify(LevelError, operation, fmt.Sprintf("Could not complete %s: %v", operation, err))
	return &WriteError{Operation: operation, Err: err}
}

func (e *Engine) publish(ctx context.Context, eventType events.EventType, ticketID string, payload interface{}) {
	if e.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		SessionID: e.sessionID,
		Timestamp: e.clock(),
		Payload:   payload,
	}
	if err := e.dispatcher.Publish(ctx, event); err != nil {
		e.logger.Warn("publish event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
