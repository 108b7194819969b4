package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown ticket status %q", raw)
	}
	return status, nil
}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// RequiresAdmin reports whether moving a ticket into s is reserved for admins.
func (s TicketStatus) RequiresAdmin() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// UnmarshalText rejects statuses outside the enumeration.
func (s *TicketStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTicketStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TicketPriority enumerates ticket urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ParseTicketPriority converts raw input into a TicketPriority.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	priority := TicketPriority(raw)
	if !priority.Valid() {
		return "", fmt.Errorf("unknown ticket priority %q", raw)
	}
	return priority, nil
}

// Valid reports whether p is one of the enumerated priorities.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// UnmarshalText rejects priorities outside the enumeration.
func (p *TicketPriority) UnmarshalText(text []byte) error {
	parsed, err := ParseTicketPriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	UserID      int64
	AssignedTo  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketView is a ticket joined with owner and assignee display data.
type TicketView struct {
	Ticket
	UserName     string
	UserEmail    string
	AssignedName *string
}

// TicketChanges carries the fields a caller asked to modify.
// Nil fields are left untouched; Assignment.Set distinguishes "unassign" from "absent".
type TicketChanges struct {
	Status     *TicketStatus
	Priority   *TicketPriority
	Assignment Assignment
}

// Assignment describes a requested change of assignee.
type Assignment struct {
	Set    bool
	UserID *int64
}

// Empty reports whether no field was requested.
func (c TicketChanges) Empty() bool {
	return c.Status == nil && c.Priority == nil && !c.Assignment.Set
}
