package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

type memoryStore struct {
	mu        sync.Mutex
	users     map[int64]domain.User
	tickets   map[int64]domain.Ticket
	nextUser  int64
	nextTick  int64
	failWith  error
	userClock func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     map[int64]domain.User{},
		tickets:   map[int64]domain.Ticket{},
		userClock: time.Now,
	}
}

type memoryUsers struct{ s *memoryStore }

type memoryTickets struct{ s *memoryStore }

func (m *memoryStore) Users() repository.UserRepository     { return memoryUsers{m} }
func (m *memoryStore) Tickets() repository.TicketRepository { return memoryTickets{m} }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return r.s.failWith
	}
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.s.nextUser++
	user.ID = r.s.nextUser
	user.CreatedAt = r.s.userClock()
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	err := r.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}

func (r memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memoryUsers) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memoryUsers) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return 0, r.s.failWith
	}
	return int64(len(r.s.users)), nil
}

func (r memoryTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return r.s.failWith
	}
	if _, ok := r.s.users[ticket.UserID]; !ok {
		return repository.ErrInvalidReference
	}
	r.s.nextTick++
	ticket.ID = r.s.nextTick
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r memoryTickets) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ticket, nil
}

func (r memoryTickets) GetView(_ context.Context, id int64) (*domain.TicketView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	view := r.s.join(ticket)
	return &view, nil
}

func (r memoryTickets) ListViews(_ context.Context, filter repository.TicketFilter) ([]domain.TicketView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := []domain.TicketView{}
	for _, ticket := range r.s.tickets {
		if filter.OwnerID != nil && ticket.UserID != *filter.OwnerID {
			continue
		}
		out = append(out, r.s.join(ticket))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r memoryTickets) Update(_ context.Context, id int64, changes domain.TicketChanges, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return r.s.failWith
	}
	ticket, ok := r.s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if changes.Status != nil {
		ticket.Status = *changes.Status
	}
	if changes.Priority != nil {
		ticket.Priority = *changes.Priority
	}
	if changes.Assignment.Set {
		ticket.AssignedTo = changes.Assignment.UserID
	}
	ticket.UpdatedAt = updatedAt
	r.s.tickets[id] = ticket
	return nil
}

func (r memoryTickets) CountByStatus(_ context.Context) (map[domain.TicketStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := map[domain.TicketStatus]int64{}
	for _, ticket := range r.s.tickets {
		out[ticket.Status]++
	}
	return out, nil
}

func (r memoryTickets) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return 0, r.s.failWith
	}
	return int64(len(r.s.tickets)), nil
}

func (m *memoryStore) join(ticket domain.Ticket) domain.TicketView {
	view := domain.TicketView{Ticket: ticket}
	if owner, ok := m.users[ticket.UserID]; ok {
		view.UserName = owner.FullName
		view.UserEmail = owner.Email
	}
	if ticket.AssignedTo != nil {
		if assignee, ok := m.users[*ticket.AssignedTo]; ok {
			name := assignee.FullName
			view.AssignedName = &name
		}
	}
	return view
}

// plainHasher keeps service tests fast; bcrypt itself is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Verify(plain, hashed string) bool  { return hashed == "hashed:"+plain }

type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.now
	c.now = c.now.Add(c.step)
	return current
}

type memoryStatsCache struct {
	stats       *domain.Stats
	sets        int
	invalidated int
	getErr      error
}

func (c *memoryStatsCache) Get(context.Context) (domain.Stats, bool, error) {
	if c.getErr != nil {
		return domain.Stats{}, false, c.getErr
	}
	if c.stats == nil {
		return domain.Stats{}, false, nil
	}
	return *c.stats, true, nil
}

func (c *memoryStatsCache) Set(_ context.Context, stats domain.Stats) error {
	c.sets++
	c.stats = &stats
	return nil
}

func (c *memoryStatsCache) Invalidate(context.Context) error {
	c.invalidated++
	c.stats = nil
	return nil
}

func ptr[T any](v T) *T { return &v }
