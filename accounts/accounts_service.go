// Package accounts wraps the user and role management endpoints of the auth service.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/rs/zerolog/log"
)

const (
	RolesPath           = "/auth/role"
	UsersPath           = "/auth/users"
	AdminUsersPath      = "/auth/users-admin"
	UpdateUserPath      = "/auth/users/update"
	RegisterStudentPath = "/auth/register-siswa"
	RegisterAdminPath   = "/auth/register-admin"
	ChangePasswordPath  = "/auth/change-password"
	VerifyUsernamePath  = "/auth/verify-username"
)

type Service struct {
	client *clients.Client
	roles  RoleCache
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithRoleCache replaces the in-memory role cache.
func WithRoleCache(cache RoleCache) ServiceOption {
	return func(s *Service) {
		s.roles = cache
	}
}

// NewService creates the accounts service over the auth service client.
func NewService(client *clients.Client, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[accounts.NewService] auth client is required")
	}
	s := &Service{client: client, roles: NewMemoryRoleCache()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// RoleCache is cleared by the owner when the session ends.
func (s *Service) RoleCache() RoleCache {
	return s.roles
}

// Roles returns the role list, fetching it once per session.
func (s *Service) Roles(ctx context.Context) ([]Role, error) {
	if roles, ok := s.roles.Get(); ok {
		return roles, nil
	}
	env, err := clients.Get[[]Role](ctx, s.client, RolesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	s.roles.Set(env.Data)
	log.Debug().Int("count", len(env.Data)).Msg("Cached roles")
	return env.Data, nil
}

// ListStudents lists the student accounts of a school.
func (s *Service) ListStudents(ctx context.Context, sekolahID int64, page, limit int) ([]StudentUser, *clients.Meta, error) {
	path := clients.IDPath(UsersPath, sekolahID)
	env, err := clients.Get[[]StudentUser](ctx, s.client, path, clients.PageQuery(page, limit, nil))
	if err != nil {
		return nil, nil, fmt.Errorf("list students of school %d: %w", sekolahID, err)
	}
	return env.Data, env.Meta, nil
}

// ListAdmins lists school admin accounts. Extra filters are passed through as query parameters.
func (s *Service) ListAdmins(ctx context.Context, page, limit int, filters url.Values) ([]AdminUser, *clients.Meta, error) {
	env, err := clients.Get[[]AdminUser](ctx, s.client, AdminUsersPath, clients.PageQuery(page, limit, filters))
	if err != nil {
		return nil, nil, fmt.Errorf("list admins: %w", err)
	}
	return env.Data, env.Meta, nil
}

func (s *Service) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*StudentUser, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, errors.New("register student: username is required")
	}
	env, err := clients.Post[StudentUser](ctx, s.client, RegisterStudentPath, req)
	if err != nil {
		return nil, fmt.Errorf("register student %q: %w", req.Username, err)
	}
	return &env.Data, nil
}

func (s *Service) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*AdminUser, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, errors.New("register admin: username is required")
	}
	env, err := clients.Post[AdminUser](ctx, s.client, RegisterAdminPath, req)
	if err != nil {
		return nil, fmt.Errorf("register admin %q: %w", req.Username, err)
	}
	return &env.Data, nil
}

func (s *Service) UpdateUser(ctx context.Context, req UpdateUserRequest) (int64, error) {
	env, err := clients.Put[UserRef](ctx, s.client, UpdateUserPath, nil, req)
	if err != nil {
		return 0, fmt.Errorf("update user %d: %w", req.UserID, err)
	}
	return env.Data.UserID, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := clients.Delete[any](ctx, s.client, clients.IDPath(UsersPath, userID)); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// ChangePassword sets a new password using the reset token sent by VerifyUsername.
func (s *Service) ChangePassword(ctx context.Context, newPassword, resetToken string) error {
	q := url.Values{"token": {resetToken}}
	if _, err := clients.Put[any](ctx, s.client, ChangePasswordPath, q, ChangePasswordRequest{Password: newPassword}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// VerifyUsername asks the backend to email a password reset link to username.
func (s *Service) VerifyUsername(ctx context.Context, username string) (bool, error) {
	env, err := clients.Post[bool](ctx, s.client, VerifyUsernamePath, VerifyUsernameRequest{Username: username})
	if err != nil {
		return false, fmt.Errorf("verify username %q: %w", username, err)
	}
	return env.Data, nil
}
