package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Plan is the subscription tier of a user.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// User models a registered candidate or administrator.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Plan         Plan      `json:"plan"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is what the auth guard attaches to a request once the bearer
// credential has been verified.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CanAccess reports whether the identity may read or modify a resource
// owned by ownerID.
func (i *Identity) CanAccess(ownerID string) bool {
	if i == nil {
		return false
	}
	return i.UserID == ownerID || i.IsAdmin()
}
