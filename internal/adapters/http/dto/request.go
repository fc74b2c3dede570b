package dto

import (
	"fmt"
	"strings"

	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/domain/user"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
)

// minPasswordLength mirrors the service-side password policy so obviously
// bad input is rejected before it reaches the application layer.
const minPasswordLength = 8

// RegisterUserRequest represents the JSON body for registering an account.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Validate checks that required fields are present and optional fields have
// valid values. Returns a *domain.ValidationError if any checks fail.
func (r *RegisterUserRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = msgRequired
	} else if !strings.Contains(r.Email, "@") {
		fields["email"] = fmt.Sprintf("invalid: %q", r.Email)
	}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if r.Password == "" {
		fields["password"] = msgRequired
	} else if len(r.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	if r.Role != "" && !user.Role(r.Role).IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", r.Role)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToUser converts the request into a domain entity. Password stays separate;
// the service hashes it.
func (r *RegisterUserRequest) ToUser() *user.User {
	return &user.User{
		Email:   strings.TrimSpace(r.Email),
		Name:    strings.TrimSpace(r.Name),
		Company: strings.TrimSpace(r.Company),
		Role:    user.Role(r.Role),
	}
}

// UpdateUserRequest represents the JSON body for updating a profile.
// All fields are optional; nil means "do not change this field".
type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateUserRequest) Validate() error {
	fields := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}
	if r.Company != nil && strings.TrimSpace(*r.Company) == "" {
		fields["company"] = msgMustNotEmpty
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToUser converts the request into a sparse domain entity for the service's
// partial update. Unset fields stay zero and are left untouched.
func (r *UpdateUserRequest) ToUser() *user.User {
	u := &user.User{}
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Company != nil {
		u.Company = strings.TrimSpace(*r.Company)
	}
	return u
}
