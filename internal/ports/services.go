package ports

import (
	"context"

	"github.com/porchest/portal-api/internal/domain/user"
)

// UserService defines the service port for account operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type UserService interface {
	// Register creates a new account from the given profile and plaintext
	// password. The password is hashed before storage and never retained.
	// Returns domain.ErrValidation if the profile fails validation and
	// domain.ErrConflict if the email is already registered.
	Register(ctx context.Context, u *user.User, password string) (*user.User, error)

	// GetUser returns a single user by ID.
	// Returns domain.ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, id string) (*user.User, error)

	// ListUsers returns one page of users with the total count for
	// pagination. Page is 1-indexed; limit bounds the page size.
	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)

	// UpdateUser updates an existing user's profile fields and returns the
	// updated entity.
	// Returns domain.ErrNotFound if the user does not exist.
	UpdateUser(ctx context.Context, id string, u *user.User) (*user.User, error)

	// DeleteUser removes an account.
	// Returns domain.ErrNotFound if the user does not exist.
	DeleteUser(ctx context.Context, id string) error

	// VerifyUser marks a pending account verified and emits the
	// user.verified automation event. Event delivery failures are logged,
	// never returned.
	// Returns domain.ErrNotFound if the user does not exist.
	VerifyUser(ctx context.Context, id string) (*user.User, error)

	// RejectUser marks a pending account rejected and emits the
	// user.rejected automation event.
	// Returns domain.ErrNotFound if the user does not exist.
	RejectUser(ctx context.Context, id string) (*user.User, error)
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users []user.User
	Total int64
	Page  int
	Limit int
}

// UserStore defines the storage port for user persistence.
// Implemented by the Mongo adapter; called by the application layer.
// Implementations translate driver errors into domain errors (duplicate key
// to domain.ErrConflict, missing document to domain.ErrNotFound).
type UserStore interface {
	// Insert persists a new user and returns it with server-assigned
	// fields (ID, timestamps).
	Insert(ctx context.Context, u *user.User) (*user.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*user.User, error)

	// FindByEmail returns a user by email.
	FindByEmail(ctx context.Context, email string) (*user.User, error)

	// List returns users ordered by creation time, newest first, with the
	// total collection count.
	List(ctx context.Context, offset, limit int) ([]user.User, int64, error)

	// Update overwrites a user's mutable profile fields.
	Update(ctx context.Context, id string, u *user.User) (*user.User, error)

	// UpdateStatus transitions a user's verification status.
	UpdateStatus(ctx context.Context, id string, status user.Status) (*user.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id string) error
}
