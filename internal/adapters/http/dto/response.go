// Package dto provides HTTP request/response data transfer objects for the
// inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/porchest/portal-api/internal/adapters/http/respond"
	"github.com/porchest/portal-api/internal/domain/user"
	"github.com/porchest/portal-api/internal/ports"
)

// UserResponse represents a single account in HTTP responses. The password
// hash never appears here.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUserResponse converts a domain User entity to an HTTP response DTO.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Company:   u.Company,
		Role:      u.Role.String(),
		Status:    u.Status.String(),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// ToUserPage converts a service listing result into the paginated response
// shape, computing the derived navigation fields.
func ToUserPage(page *ports.UserPage) respond.Page {
	items := make([]UserResponse, len(page.Users))
	for i := range page.Users {
		items[i] = ToUserResponse(&page.Users[i])
	}

	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((page.Total + int64(page.Limit) - 1) / int64(page.Limit))
	}

	return respond.Page{
		Items: items,
		Pagination: respond.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: totalPages,
			HasNext:    page.Page < totalPages,
			HasPrev:    page.Page > 1,
		},
	}
}
