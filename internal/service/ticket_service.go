package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// TicketCreateInput describes ticket creation payload. An empty Priority means medium.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// Create opens a ticket owned by actor and returns it joined with the owner's display data.
func (s *TicketService) Create(ctx context.Context, actor domain.Identity, input TicketCreateInput) (*domain.TicketView, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	details := map[string]any{}
	if title == "" {
		details["title"] = "is required"
	}
	if description == "" {
		details["description"] = "is required"
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	} else if !priority.Valid() {
		details["priority"] = "must be one of low, medium, high"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("title and description are required", details)
	}

	now := s.timestamp()
	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		UserID:      actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, apperrors.NewUnauthorized("account no longer exists")
		}
		return nil, apperrors.NewStoreError(err)
	}

	s.logger.Info("ticket created", zap.Int64("ticket_id", ticket.ID), zap.Int64("user_id", actor.UserID))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		Actor:    actorOf(actor),
		Payload:  events.TicketCreatedPayload{Priority: ticket.Priority, Title: ticket.Title},
	})

	return s.view(ctx, ticket.ID)
}

// List returns the tickets visible to actor, newest first.
func (s *TicketService) List(ctx context.Context, actor domain.Identity) ([]domain.TicketView, error) {
	views, err := s.tickets.ListViews(ctx, TicketScope(actor))
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return views, nil
}

// Get returns a single ticket if actor may view it.
func (s *TicketService) Get(ctx context.Context, actor domain.Identity, ticketID int64) (*domain.TicketView, error) {
	view, err := s.view(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeTicketView(actor, view.Ticket); err != nil {
		return nil, err
	}
	return view, nil
}

// Update applies the requested field changes after consulting the authorization rules.
// Fields absent from changes are left untouched; updated_at always advances.
func (s *TicketService) Update(ctx context.Context, actor domain.Identity, ticketID int64, changes domain.TicketChanges) (*domain.TicketView, error) {
	if err := validateChanges(changes); err != nil {
		return nil, err
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.ticketLookupError(err, ticketID)
	}

	if err := AuthorizeTicketUpdate(actor, *current, changes); err != nil {
		return nil, err
	}

	if changes.Assignment.Set && changes.Assignment.UserID != nil {
		if err := s.ensureAssignee(ctx, *changes.Assignment.UserID); err != nil {
			return nil, err
		}
	}

	updatedAt := s.timestamp()
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = current.UpdatedAt.Add(time.Microsecond)
	}

	if err := s.tickets.Update(ctx, ticketID, changes, updatedAt); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, s.ticketLookupError(err, ticketID)
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, invalidAssignee()
		default:
			return nil, apperrors.NewStoreError(err)
		}
	}

	view, err := s.view(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket updated",
		zap.Int64("ticket_id", ticketID),
		zap.Int64("actor_id", actor.UserID),
		zap.String("status", string(view.Status)))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketUpdated,
		EntityID: ticketID,
		Actor:    actorOf(actor),
		Payload: events.TicketUpdatedPayload{
			OldStatus:   current.Status,
			NewStatus:   view.Status,
			OldPriority: current.Priority,
			NewPriority: view.Priority,
			OldAssignee: current.AssignedTo,
			NewAssignee: view.AssignedTo,
		},
	})
	return view, nil
}

func (s *TicketService) view(ctx context.Context, ticketID int64) (*domain.TicketView, error) {
	view, err := s.tickets.GetView(ctx, ticketID)
	if err != nil {
		return nil, s.ticketLookupError(err, ticketID)
	}
	return view, nil
}

func (s *TicketService) ensureAssignee(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidAssignee()
		}
		return apperrors.NewStoreError(err)
	}
	return nil
}

func (s *TicketService) ticketLookupError(err error, ticketID int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.NewStoreError(err)
}

// timestamp truncates to microseconds so values survive a postgres round trip unchanged.
func (s *TicketService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func validateChanges(changes domain.TicketChanges) error {
	details := map[string]any{}
	if changes.Status != nil && !changes.Status.Valid() {
		details["status"] = "must be one of open, in_progress, resolved, closed"
	}
	if changes.Priority != nil && !changes.Priority.Valid() {
		details["priority"] = "must be one of low, medium, high"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket changes", details)
	}
	return nil
}

func invalidAssignee() error {
	return apperrors.NewValidationError("assignee does not exist", map[string]any{
		"assigned_to": "must reference an existing user",
	})
}
