package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
)

const ticketColumns = `id, process_number, opened_on, organization, handler, functionality,
		summary, request_text, response_text, tags, status, closed_on, satisfaction, created_at`

// TicketRepository implements repository.TicketRepository for SQLite.
// Tags are stored as a JSON array.
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// FetchAll returns every ticket in insertion order.
func (r *TicketRepository) FetchAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Insert stores a ticket, assigning its id and creation time.
func (r *TicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	tags, err := encodeTags(ticket.Tags)
	if err != nil {
		return err
	}
	stored := ticket.Clone()
	stored.ID = uuid.NewString()
	createdAt := r.db.timestamp()
	stored.CreatedAt = &createdAt
	if stored.Tags == nil {
		stored.Tags = []string{}
	}

	query := `
		INSERT INTO tickets (` + ticketColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		stored.ID,
		stored.ProcessNumber,
		stored.OpenedOn,
		stored.Organization,
		stored.Handler,
		stored.Functionality,
		stored.Summary,
		stored.RequestText,
		stored.ResponseText,
		tags,
		repository.ColumnValue(stored.Status),
		repository.ColumnValue(stored.ClosedOn),
		repository.ColumnValue(stored.Satisfaction),
		formatTime(createdAt),
	)
	if err != nil {
		return insertError("tickets", err)
	}
	*ticket = stored
	return nil
}

// UpdateFields writes only the changed columns.
func (r *TicketRepository) UpdateFields(ctx context.Context, id string, changes domain.Changes) error {
	fields := changes.Fields()
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, field := range fields {
		column, err := repository.Column(field)
		if err != nil {
			return err
		}
		value := repository.ColumnValue(changes[field])
		if tags, ok := value.([]string); ok {
			if value, err = encodeTags(tags); err != nil {
				return err
			}
		}
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = ?`, strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	return requireAffected(result)
}

// Delete removes one ticket.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return requireAffected(result)
}

// DeleteMany removes tickets in one statement. Unknown ids are ignored.
func (r *TicketRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM tickets WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete tickets: %w", err)
	}
	return nil
}

// Search evaluates filter criteria in SQL. Case folding uses SQLite's
// lower(), which only folds ASCII letters.
func (r *TicketRepository) Search(ctx context.Context, criteria filter.Criteria) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	var args []any

	contains := func(column, value string) {
		if value == "" {
			return
		}
		clauses = append(clauses, fmt.Sprintf("instr(lower(%s), lower(?)) > 0", column))
		args = append(args, value)
	}
	contains("process_number", criteria.ProcessNumber)
	contains("handler", criteria.Handler)
	contains("organization", criteria.Organization)
	contains("functionality", criteria.Functionality)

	if criteria.OpenedOn != "" {
		clauses = append(clauses, "opened_on = ?")
		args = append(args, criteria.OpenedOn)
	}
	if criteria.Tag != "" {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM json_each(tickets.tags) WHERE instr(lower(json_each.value), lower(?)) > 0)")
		args = append(args, criteria.Tag)
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at, rowid`,
		ticketColumns, strings.Join(clauses, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tickets: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows *sql.Rows) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	for rows.Next() {
		var (
			ticket       domain.Ticket
			tags         string
			status       sql.NullString
			closedOn     sql.NullString
			satisfaction sql.NullString
			createdAt    string
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ProcessNumber,
			&ticket.OpenedOn,
			&ticket.Organization,
			&ticket.Handler,
			&ticket.Functionality,
			&ticket.Summary,
			&ticket.RequestText,
			&ticket.ResponseText,
			&tags,
			&status,
			&closedOn,
			&satisfaction,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &ticket.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of ticket %s: %w", ticket.ID, err)
		}
		if status.Valid {
			ticket.Status = domain.TicketStatus(status.String)
		}
		if closedOn.Valid {
			ticket.ClosedOn = &closedOn.String
		}
		if satisfaction.Valid {
			level := domain.Satisfaction(satisfaction.String)
			ticket.Satisfaction = &level
		}
		created, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at of ticket %s: %w", ticket.ID, err)
		}
		ticket.CreatedAt = &created
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(raw), nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TicketRepository = (*TicketRepository)(nil)
