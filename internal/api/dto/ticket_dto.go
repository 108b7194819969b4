package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload. Priority defaults to medium when omitted.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description" validate:"required,max=10000"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest carries only the fields the caller wants changed.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus   `json:"status"`
	Priority   *domain.TicketPriority `json:"priority"`
	AssignedTo OptionalUserID         `json:"assigned_to"`
}

// Changes converts the request into a domain change set.
func (r UpdateTicketRequest) Changes() domain.TicketChanges {
	return domain.TicketChanges{
		Status:     r.Status,
		Priority:   r.Priority,
		Assignment: domain.Assignment{Set: r.AssignedTo.Set, UserID: r.AssignedTo.Value},
	}
}

// OptionalUserID tells an absent field apart from an explicit null.
type OptionalUserID struct {
	Set   bool
	Value *int64
}

var errAssignedTo = errors.New("assigned_to must be a user id or null")

// UnmarshalJSON runs only when the key is present, including for null.
func (o *OptionalUserID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return errAssignedTo
	}
	o.Value = &id
	return nil
}

// TicketResponse is a ticket joined with owner and assignee display data.
type TicketResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	UserID       int64                 `json:"user_id"`
	AssignedTo   *int64                `json:"assigned_to"`
	UserName     string                `json:"user_name"`
	UserEmail    string                `json:"user_email"`
	AssignedName *string               `json:"assigned_name"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a ticket view.
func NewTicketResponse(view domain.TicketView) TicketResponse {
	return TicketResponse{
		ID:           view.ID,
		Title:        view.Title,
		Description:  view.Description,
		Status:       view.Status,
		Priority:     view.Priority,
		UserID:       view.UserID,
		AssignedTo:   view.AssignedTo,
		UserName:     view.UserName,
		UserEmail:    view.UserEmail,
		AssignedName: view.AssignedName,
		CreatedAt:    view.CreatedAt,
		UpdatedAt:    view.UpdatedAt,
	}
}

// NewTicketListResponse maps views, never returning nil.
func NewTicketListResponse(views []domain.TicketView) []TicketResponse {
	out := make([]TicketResponse, 0, len(views))
	for _, view := range views {
		out = append(out, NewTicketResponse(view))
	}
	return out
}
