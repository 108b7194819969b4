package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestScenario_StatsCountsByStatus(t *testing.T) {
	h := newHarness(t)
	admin := h.seedAdmin(t)
	alice := h.register(t, "alice@example.com", "Alice")

	for i := 0; i < 3; i++ {
		h.createTicket(t, alice, "open")
	}
	resolved := h.createTicket(t, alice, "done")
	_, err := h.tickets.Update(context.Background(), admin, resolved.ID, domain.TicketChanges{Status: ptr(domain.TicketStatusResolved)})
	require.NoError(t, err)

	stats, err := h.admin.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[domain.TicketStatus]int64{
		domain.TicketStatusOpen:     3,
		domain.TicketStatusResolved: 1,
	}, stats.TicketsByStatus)
	assert.Equal(t, int64(4), stats.TotalTickets)
	assert.Equal(t, int64(2), stats.TotalUsers)
}

func TestListUsers_NewestFirst(t *testing.T) {
	h := newHarness(t)
	h.seedAdmin(t)
	h.register(t, "alice@example.com", "Alice")

	users, err := h.admin.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "admin@example.com", users[1].Email)
}

func TestStats_CacheHitAndInvalidation(t *testing.T) {
	h := newHarness(t)
	cache := &memoryStatsCache{}
	h.admin = NewAdminService(AdminDependencies{
		UserRepo:   h.store.Users(),
		TicketRepo: h.store.Tickets(),
		Cache:      cache,
	})
	h.admin.SubscribeCacheInvalidation(h.dispatcher)

	alice := h.register(t, "alice@example.com", "Alice")
	assert.Equal(t, 1, cache.invalidated)

	first, err := h.admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, int64(0), first.TotalTickets)

	again, err := h.admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second read should be served from cache")
	assert.Equal(t, first, again)

	h.createTicket(t, alice, "X")
	assert.Equal(t, 2, cache.invalidated)

	fresh, err := h.admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.TotalTickets)
}

func TestStats_CacheErrorFallsThrough(t *testing.T) {
	h := newHarness(t)
	cache := &memoryStatsCache{getErr: errors.New("redis down")}
	h.admin = NewAdminService(AdminDependencies{
		UserRepo:   h.store.Users(),
		TicketRepo: h.store.Tickets(),
		Cache:      cache,
	})
	h.register(t, "alice@example.com", "Alice")

	stats, err := h.admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
}
