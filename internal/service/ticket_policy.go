package service

import (
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

const (
	msgNotAuthorizedView   = "not authorized to view this ticket"
	msgNotAuthorizedUpdate = "not authorized to update this ticket"
	msgAdminRequired       = "admin access required for this action"
)

// TicketScope returns the listing filter for actor: admins see everything, others only their own tickets.
func TicketScope(actor domain.Identity) repository.TicketFilter {
	if actor.IsAdmin() {
		return repository.TicketFilter{}
	}
	owner := actor.UserID
	return repository.TicketFilter{OwnerID: &owner}
}

// CanViewTicket reports whether actor may read ticket.
func CanViewTicket(actor domain.Identity, ticket domain.Ticket) bool {
	return actor.IsAdmin() || ticket.UserID == actor.UserID
}

// AuthorizeTicketView returns a Forbidden error when actor may not read ticket.
func AuthorizeTicketView(actor domain.Identity, ticket domain.Ticket) error {
	if !CanViewTicket(actor, ticket) {
		return apperrors.NewForbidden(msgNotAuthorizedView)
	}
	return nil
}

// AuthorizeTicketUpdate decides whether actor may apply changes to ticket.
// Ownership is checked before the restricted fields, so a stranger always sees the ownership message.
func AuthorizeTicketUpdate(actor domain.Identity, ticket domain.Ticket, changes domain.TicketChanges) error {
	if actor.IsAdmin() {
		return nil
	}
	if ticket.UserID != actor.UserID {
		return apperrors.NewForbidden(msgNotAuthorizedUpdate)
	}
	if changes.Assignment.Set {
		return apperrors.NewForbidden(msgAdminRequired)
	}
	if changes.Status != nil && changes.Status.RequiresAdmin() {
		return apperrors.NewForbidden(msgAdminRequired)
	}
	return nil
}
