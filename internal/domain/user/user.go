package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/porchest/portal-api/internal/domain"
)

// User represents a portal account. PasswordHash is a bcrypt hash and must
// never leave the storage and service layers; outbound DTOs omit it.
type User struct {
	ID           string
	Email        string
	Name         string
	Company      string
	Role         Role
	Status       Status
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks business rules for the User entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (u *User) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(u.Email) == "" {
		fields["email"] = domain.MsgRequired
	} else if !strings.Contains(u.Email, "@") {
		fields["email"] = fmt.Sprintf("invalid: %q", u.Email)
	}
	if strings.TrimSpace(u.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if !u.Role.IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", u.Role)
	}
	if !u.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", u.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
