package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/domain/user"
	"github.com/porchest/portal-api/internal/platform/logging"
	"github.com/porchest/portal-api/internal/ports"
)

// Compile-time check that UserService implements ports.UserService.
var _ ports.UserService = (*UserService)(nil)

// minPasswordLength is the minimum accepted plaintext password length.
const minPasswordLength = 8

// Pagination bounds for ListUsers.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// EventDispatcher delivers automation events emitted by services. Delivery
// failures are the dispatcher's concern; Dispatch never reports them back to
// the emitting request.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

// UserService implements ports.UserService by orchestrating the user store
// and the automation dispatcher. It handles validation, password hashing,
// and structured logging but contains no storage logic.
type UserService struct {
	store      ports.UserStore
	dispatcher EventDispatcher
	logger     *logging.Logger
}

// NewUserService creates a UserService. The dispatcher receives verification
// events; pass a no-op implementation to disable automation.
func NewUserService(store ports.UserStore, dispatcher EventDispatcher, logger *logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register creates a new account. The plaintext password is bcrypt-hashed
// and discarded; new accounts start as pending clients unless the caller
// sets a role.
func (s *UserService) Register(ctx context.Context, u *user.User, password string) (*user.User, error) {
	s.logger.Info("registering user", logging.Fields{"email": u.Email})

	if u.Role == "" {
		u.Role = user.RoleClient
	}
	u.Status = user.StatusPending

	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", err, logging.Fields{"operation": "Register"})
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)

	created, err := s.store.Insert(ctx, u)
	if err != nil {
		s.logger.Error("failed to register user", err, logging.Fields{
			"operation": "Register",
			"email":     u.Email,
		})
		return nil, err
	}

	return created, nil
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	s.logger.Debug("fetching user", logging.Fields{"id": id})

	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch user", err, logging.Fields{
			"operation": "GetUser",
			"id":        id,
		})
		return nil, err
	}

	return u, nil
}

// ListUsers returns one page of users. Page numbers below 1 are clamped to
// the first page; out-of-range limits fall back to the default.
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	s.logger.Debug("listing users", logging.Fields{"page": page, "limit": limit})

	users, total, err := s.store.List(ctx, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("failed to list users", err, logging.Fields{
			"operation": "ListUsers",
			"page":      page,
		})
		return nil, err
	}

	return &ports.UserPage{
		Users: users,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// UpdateUser updates an existing user's profile fields.
func (s *UserService) UpdateUser(ctx context.Context, id string, u *user.User) (*user.User, error) {
	s.logger.Info("updating user", logging.Fields{"id": id})

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only profile fields are caller-mutable; identity, credentials, and
	// verification status change through their own operations.
	if u.Name != "" {
		current.Name = u.Name
	}
	if u.Company != "" {
		current.Company = u.Company
	}
	if err := current.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, current)
	if err != nil {
		s.logger.Error("failed to update user", err, logging.Fields{
			"operation": "UpdateUser",
			"id":        id,
		})
		return nil, err
	}

	return updated, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	s.logger.Info("deleting user", logging.Fields{"id": id})

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", err, logging.Fields{
			"operation": "DeleteUser",
			"id":        id,
		})
		return err
	}

	return nil
}

// VerifyUser marks an account verified and emits user.verified.
func (s *UserService) VerifyUser(ctx context.Context, id string) (*user.User, error) {
	return s.transition(ctx, id, user.StatusVerified, domain.EventUserVerified)
}

// RejectUser marks an account rejected and emits user.rejected.
func (s *UserService) RejectUser(ctx context.Context, id string) (*user.User, error) {
	return s.transition(ctx, id, user.StatusRejected, domain.EventUserRejected)
}

// transition moves a user to the given status and dispatches the matching
// automation event. The event never blocks or fails the request.
func (s *UserService) transition(ctx context.Context, id string, status user.Status, eventType domain.EventType) (*user.User, error) {
	s.logger.Info("transitioning user status", logging.Fields{
		"id":     id,
		"status": status.String(),
	})

	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("failed to transition user status", err, logging.Fields{
			"operation": "transition",
			"id":        id,
			"status":    status.String(),
		})
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, domain.Event{
		Type:       eventType,
		UserID:     updated.ID,
		Email:      updated.Email,
		Name:       updated.Name,
		OccurredAt: time.Now().UTC(),
	})

	return updated, nil
}

// validatePassword enforces the plaintext password policy before hashing.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &domain.ValidationError{Fields: map[string]string{
			"password": fmt.Sprintf("must be at least %d characters", minPasswordLength),
		}}
	}
	return nil
}
