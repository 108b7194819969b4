package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// EnsureAdmin seeds the administrator account unless an account with its email already exists.
// Running it repeatedly is safe; an existing account is never modified.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, cfg config.BootstrapConfig, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	email := normalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return false, apperrors.NewValidationError("admin email and password are required", nil)
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     cfg.AdminFullName,
		Role:         domain.RoleAdmin,
	}
	created, err := users.CreateIfAbsent(ctx, admin)
	if err != nil {
		return false, apperrors.NewStoreError(err)
	}

	if created {
		logger.Info("admin account seeded", zap.String("email", email), zap.Int64("user_id", admin.ID))
	} else {
		logger.Debug("admin account already present", zap.String("email", email))
	}
	return created, nil
}
