package repository

import (
	"context"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	// Create inserts the user and fills ID and CreatedAt. Returns ErrDuplicate for a taken email.
	Create(ctx context.Context, user *domain.User) error
	// CreateIfAbsent inserts the user unless the email exists; created reports which happened.
	CreateIfAbsent(ctx context.Context, user *domain.User) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// TicketFilter scopes ticket listings. A nil OwnerID lists every ticket.
type TicketFilter struct {
	OwnerID *int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// Create inserts the ticket and fills ID.
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// GetView returns the ticket joined with owner and assignee display data.
	GetView(ctx context.Context, id int64) (*domain.TicketView, error)
	// ListViews returns joined tickets ordered by created_at descending.
	ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error)
	// Update writes only the requested fields plus updated_at in a single statement.
	Update(ctx context.Context, id int64, changes domain.TicketChanges, updatedAt time.Time) error
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
	Count(ctx context.Context) (int64, error)
}
