package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"causelist-backend/internal/shared/auth"
)

// Service contains business logic for dashboard users.
type Service struct {
	Repo             Repo
	superadminEmails map[string]struct{}
}

// NewService constructs a Service. Emails listed in superadminEmails are
// granted the superadmin role on sign-in.
func NewService(repo Repo, superadminEmails []string) *Service {
	set := make(map[string]struct{}, len(superadminEmails))
	for _, email := range superadminEmails {
		if trimmed := strings.ToLower(strings.TrimSpace(email)); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return &Service{Repo: repo, superadminEmails: set}
}

// UpsertFromGoogle records a sign-in, creating the account on first login.
// Existing roles are preserved except for a superadmin-list promotion.
func (s *Service) UpsertFromGoogle(ctx context.Context, sub, email, name string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	sub = strings.TrimSpace(sub)
	email = strings.TrimSpace(email)
	if sub == "" || email == "" {
		return User{}, errors.New("google sub and email are required")
	}

	now := time.Now().UTC()
	role := auth.RoleViewer
	createdAt := now

	existing, err := s.Repo.GetByGoogleSub(ctx, sub)
	switch {
	case err == nil:
		role = existing.Role
		createdAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		// first sign-in
	default:
		return User{}, err
	}

	if _, ok := s.superadminEmails[strings.ToLower(email)]; ok {
		role = auth.RoleSuperadmin
	}

	user := User{
		ID:          uuid.NewString(),
		GoogleSub:   sub,
		Email:       email,
		Name:        strings.TrimSpace(name),
		Role:        role,
		CreatedAt:   createdAt,
		LastLoginAt: &now,
	}
	return s.Repo.Upsert(ctx, user)
}
