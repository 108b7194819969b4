package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// StatsCache holds the last computed stats snapshot.
type StatsCache interface {
	Get(ctx context.Context) (domain.Stats, bool, error)
	Set(ctx context.Context, stats domain.Stats) error
	Invalidate(ctx context.Context) error
}

// AdminService serves the admin reporting endpoints.
type AdminService struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
	cache   StatsCache
	logger  *zap.Logger
}

// AdminDependencies bundles collaborators for the admin service. Cache may be nil.
type AdminDependencies struct {
	UserRepo   repository.UserRepository
	TicketRepo repository.TicketRepository
	Cache      StatsCache
	Logger     *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:   deps.UserRepo,
		tickets: deps.TicketRepo,
		cache:   deps.Cache,
		logger:  logger,
	}
}

// ListUsers returns every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return users, nil
}

// Stats returns ticket counts per status plus user and ticket totals.
// Statuses without tickets are absent from TicketsByStatus.
func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	byStatus, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return domain.Stats{}, apperrors.NewStoreError(err)
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return domain.Stats{}, apperrors.NewStoreError(err)
	}
	totalTickets, err := s.tickets.Count(ctx)
	if err != nil {
		return domain.Stats{}, apperrors.NewStoreError(err)
	}

	stats := domain.Stats{
		TicketsByStatus: byStatus,
		TotalUsers:      totalUsers,
		TotalTickets:    totalTickets,
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// SubscribeCacheInvalidation drops the cached stats whenever an event changes the counts.
func (s *AdminService) SubscribeCacheInvalidation(dispatcher events.Dispatcher) {
	if s.cache == nil || dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, s.invalidate)
	}
}

func (s *AdminService) invalidate(ctx context.Context, _ events.Event) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate stats cache: %w", err)
	}
	return nil
}
