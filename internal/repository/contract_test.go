package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// runStoreContract exercises behavior both backends must share. The store must start empty.
func runStoreContract(t *testing.T, users repository.UserRepository, tickets repository.TicketRepository) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	alice := &domain.User{Email: "alice@example.com", PasswordHash: "h1", FullName: "Alice", Role: domain.RoleUser}
	bob := &domain.User{Email: "bob@example.com", PasswordHash: "h2", FullName: "Bob", Role: domain.RoleUser}

	t.Run("users", func(t *testing.T) {
		require.NoError(t, users.Create(ctx, alice))
		require.NoError(t, users.Create(ctx, bob))
		assert.NotZero(t, alice.ID)
		assert.NotEqual(t, alice.ID, bob.ID)
		assert.False(t, alice.CreatedAt.IsZero())

		dup := &domain.User{Email: "alice@example.com", PasswordHash: "x", Role: domain.RoleUser}
		assert.ErrorIs(t, users.Create(ctx, dup), repository.ErrDuplicate)

		got, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "h1", got.PasswordHash)
		assert.Equal(t, domain.RoleUser, got.Role)

		_, err = users.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = users.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		count, err := users.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("create if absent", func(t *testing.T) {
		admin := &domain.User{Email: "admin@example.com", PasswordHash: "a", FullName: "Admin", Role: domain.RoleAdmin}
		created, err := users.CreateIfAbsent(ctx, admin)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, admin.ID)

		again := &domain.User{Email: "admin@example.com", PasswordHash: "b", Role: domain.RoleAdmin}
		created, err = users.CreateIfAbsent(ctx, again)
		require.NoError(t, err)
		assert.False(t, created)

		stored, err := users.GetByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "a", stored.PasswordHash)
		assert.Equal(t, domain.RoleAdmin, stored.Role)
	})

	var first, second *domain.Ticket

	t.Run("tickets create and view", func(t *testing.T) {
		first = &domain.Ticket{Title: "Printer", Description: "jammed", Status: domain.TicketStatusOpen,
			Priority: domain.TicketPriorityMedium, UserID: alice.ID, CreatedAt: base, UpdatedAt: base}
		second = &domain.Ticket{Title: "VPN", Description: "down", Status: domain.TicketStatusOpen,
			Priority: domain.TicketPriorityHigh, UserID: bob.ID, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)}
		require.NoError(t, tickets.Create(ctx, first))
		require.NoError(t, tickets.Create(ctx, second))

		view, err := tickets.GetView(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Printer", view.Title)
		assert.Equal(t, "Alice", view.UserName)
		assert.Equal(t, "alice@example.com", view.UserEmail)
		assert.Nil(t, view.AssignedTo)
		assert.Nil(t, view.AssignedName)
		assert.True(t, view.CreatedAt.Equal(base))

		_, err = tickets.GetView(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = tickets.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("dangling owner rejected", func(t *testing.T) {
		orphan := &domain.Ticket{Title: "t", Description: "d", Status: domain.TicketStatusOpen,
			Priority: domain.TicketPriorityLow, UserID: 999999, CreatedAt: base, UpdatedAt: base}
		assert.ErrorIs(t, tickets.Create(ctx, orphan), repository.ErrInvalidReference)
	})

	t.Run("list scoped and ordered", func(t *testing.T) {
		all, err := tickets.ListViews(ctx, repository.TicketFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, first.ID, all[1].ID)

		owner := alice.ID
		mine, err := tickets.ListViews(ctx, repository.TicketFilter{OwnerID: &owner})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, alice.ID, mine[0].UserID)
	})

	t.Run("partial update", func(t *testing.T) {
		status := domain.TicketStatusInProgress
		updatedAt := base.Add(time.Hour)
		err := tickets.Update(ctx, first.ID, domain.TicketChanges{
			Status:     &status,
			Assignment: domain.Assignment{Set: true, UserID: &bob.ID},
		}, updatedAt)
		require.NoError(t, err)

		view, err := tickets.GetView(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, view.Status)
		assert.Equal(t, domain.TicketPriorityMedium, view.Priority)
		require.NotNil(t, view.AssignedTo)
		assert.Equal(t, bob.ID, *view.AssignedTo)
		require.NotNil(t, view.AssignedName)
		assert.Equal(t, "Bob", *view.AssignedName)
		assert.True(t, view.UpdatedAt.Equal(updatedAt))

		priority := domain.TicketPriorityLow
		require.NoError(t, tickets.Update(ctx, first.ID, domain.TicketChanges{Priority: &priority}, updatedAt.Add(time.Second)))
		view, err = tickets.GetView(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, view.Status)
		require.NotNil(t, view.AssignedTo)

		require.NoError(t, tickets.Update(ctx, first.ID, domain.TicketChanges{Assignment: domain.Assignment{Set: true}}, updatedAt.Add(2*time.Second)))
		view, err = tickets.GetView(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, view.AssignedTo)

		assert.ErrorIs(t, tickets.Update(ctx, 999999, domain.TicketChanges{}, updatedAt), repository.ErrNotFound)
	})

	t.Run("counts", func(t *testing.T) {
		byStatus, err := tickets.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[domain.TicketStatus]int64{
			domain.TicketStatusOpen:       1,
			domain.TicketStatusInProgress: 1,
		}, byStatus)

		total, err := tickets.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}
