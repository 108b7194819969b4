package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
)

type harness struct {
	store      *memoryStore
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	clock      *stepClock
	auth       *AuthService
	tickets    *TicketService
	admin      *AdminService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := newMemoryStore()
	tokens := auth.NewTokenManager("test-secret", 24*time.Hour)
	dispatcher := events.NewInMemoryDispatcher(nil)
	clock := &stepClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), step: time.Second}

	return &harness{
		store:      store,
		tokens:     tokens,
		dispatcher: dispatcher,
		clock:      clock,
		auth: NewAuthService(AuthDependencies{
			UserRepo:   store.Users(),
			Hasher:     plainHasher{},
			Tokens:     tokens,
			Dispatcher: dispatcher,
		}),
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: store.Tickets(),
			UserRepo:   store.Users(),
			Dispatcher: dispatcher,
			Clock:      clock.Now,
		}),
		admin: NewAdminService(AdminDependencies{
			UserRepo:   store.Users(),
			TicketRepo: store.Tickets(),
		}),
	}
}

func (h *harness) register(t *testing.T, email, fullName string) domain.Identity {
	t.Helper()
	res, err := h.auth.Register(context.Background(), RegisterInput{Email: email, Password: "secret", FullName: fullName})
	require.NoError(t, err)
	return domain.Identity{UserID: res.User.ID, Email: res.User.Email, Role: res.User.Role}
}

func (h *harness) seedAdmin(t *testing.T) domain.Identity {
	t.Helper()
	_, err := EnsureAdmin(context.Background(), h.store.Users(), plainHasher{}, config.BootstrapConfig{
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		AdminFullName: "System Administrator",
	}, nil)
	require.NoError(t, err)

	res, err := h.auth.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)
	return domain.Identity{UserID: res.User.ID, Email: res.User.Email, Role: res.User.Role}
}

func (h *harness) createTicket(t *testing.T, owner domain.Identity, title string) *domain.TicketView {
	t.Helper()
	view, err := h.tickets.Create(context.Background(), owner, TicketCreateInput{Title: title, Description: "details"})
	require.NoError(t, err)
	return view
}
