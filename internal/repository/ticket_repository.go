package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, user_id, assigned_to, created_at, updated_at`

const ticketViewSelect = `
        SELECT t.id, t.title, t.description, t.status, t.priority, t.user_id, t.assigned_to,
               t.created_at, t.updated_at, u.full_name, u.email, a.full_name
        FROM tickets t
        JOIN users u ON t.user_id = u.id
        LEFT JOIN users a ON t.assigned_to = a.id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, user_id, assigned_to, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		ticket.UserID,
		ticket.AssignedTo,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Scan(&ticket.ID)
	return translate(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`

	var (
		ticket           domain.Ticket
		status, priority string
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&priority,
		&ticket.UserID,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	if err := setEnums(&ticket, status, priority); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetView(ctx context.Context, id int64) (*domain.TicketView, error) {
	query := ticketViewSelect + ` WHERE t.id=$1`
	return scanTicketView(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("t.user_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC, t.id DESC`,
		ticketViewSelect, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	views := []domain.TicketView{}
	for rows.Next() {
		view, err := scanTicketView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, translate(rows.Err())
}

func (r *ticketRepository) Update(ctx context.Context, id int64, changes domain.TicketChanges, updatedAt time.Time) error {
	sets := []string{}
	args := []any{}

	if changes.Status != nil {
		args = append(args, string(*changes.Status))
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if changes.Priority != nil {
		args = append(args, string(*changes.Priority))
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if changes.Assignment.Set {
		args = append(args, changes.Assignment.UserID)
		sets = append(sets, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at=$%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	counts := map[domain.TicketStatus]int64{}
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, translate(err)
		}
		counts[domain.TicketStatus(status)] = count
	}
	return counts, translate(rows.Err())
}

func (r *ticketRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	return count, translate(err)
}

func scanTicketView(row pgx.Row) (*domain.TicketView, error) {
	var (
		view             domain.TicketView
		status, priority string
	)
	if err := row.Scan(
		&view.ID,
		&view.Title,
		&view.Description,
		&status,
		&priority,
		&view.UserID,
		&view.AssignedTo,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.UserName,
		&view.UserEmail,
		&view.AssignedName,
	); err != nil {
		return nil, translate(err)
	}
	if err := setEnums(&view.Ticket, status, priority); err != nil {
		return nil, err
	}
	return &view, nil
}

// setEnums parses stored enum text so unknown values never leave the store layer.
func setEnums(ticket *domain.Ticket, status, priority string) error {
	parsedStatus, err := domain.ParseTicketStatus(status)
	if err != nil {
		return err
	}
	parsedPriority, err := domain.ParseTicketPriority(priority)
	if err != nil {
		return err
	}
	ticket.Status = parsedStatus
	ticket.Priority = parsedPriority
	return nil
}
