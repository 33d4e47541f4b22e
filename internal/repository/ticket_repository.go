package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
)

const ticketColumns = `id, process_number, opened_on, organization, handler, functionality,
               summary, request_text, response_text, tags, status, closed_on, satisfaction, created_at`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres ticket store.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) FetchAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at, seq`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	query := `
        INSERT INTO tickets (process_number, opened_on, organization, handler, functionality,
            summary, request_text, response_text, tags, status, closed_on, satisfaction)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING ` + ticketColumns
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	row := r.pool.QueryRow(ctx, query,
		ticket.ProcessNumber,
		ticket.OpenedOn,
		ticket.Organization,
		ticket.Handler,
		ticket.Functionality,
		ticket.Summary,
		ticket.RequestText,
		ticket.ResponseText,
		tags,
		ColumnValue(ticket.Status),
		ColumnValue(ticket.ClosedOn),
		ColumnValue(ticket.Satisfaction),
	)
	stored, err := scanTicket(row)
	if err != nil {
		return insertError("tickets", err)
	}
	*ticket = stored
	return nil
}

func (r *ticketRepository) UpdateFields(ctx context.Context, id string, changes domain.Changes) error {
	fields := changes.Fields()
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, field := range fields {
		column, err := Column(field)
		if err != nil {
			return err
		}
		args = append(args, ColumnValue(changes[field]))
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = ANY($1)`, ids)
	return err
}

func (r *ticketRepository) Search(ctx context.Context, criteria filter.Criteria) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	contains := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("POSITION(LOWER($%d) IN LOWER(%s)) > 0", len(args), column))
	}
	contains("process_number", criteria.ProcessNumber)
	contains("handler", criteria.Handler)
	contains("organization", criteria.Organization)
	contains("functionality", criteria.Functionality)

	if criteria.OpenedOn != "" {
		args = append(args, criteria.OpenedOn)
		clauses = append(clauses, fmt.Sprintf("opened_on=$%d", len(args)))
	}
	if criteria.Tag != "" {
		args = append(args, criteria.Tag)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE POSITION(LOWER($%d) IN LOWER(tag)) > 0)", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at, seq`,
		ticketColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		status       *string
		satisfaction *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.ProcessNumber,
		&ticket.OpenedOn,
		&ticket.Organization,
		&ticket.Handler,
		&ticket.Functionality,
		&ticket.Summary,
		&ticket.RequestText,
		&ticket.ResponseText,
		&ticket.Tags,
		&status,
		&ticket.ClosedOn,
		&satisfaction,
		&ticket.CreatedAt,
	); err != nil {
		return domain.Ticket{}, err
	}
	if status != nil {
		ticket.Status = domain.TicketStatus(*status)
	}
	if satisfaction != nil {
		level := domain.Satisfaction(*satisfaction)
		ticket.Satisfaction = &level
	}
	return ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
