package user

import "time"

// Role represents user roles in the marketplace
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User is the identity record returned by the marketplace API
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that callers may keep without sharing state with the session
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// UpdateProfileRequest represents the request to update the current user's profile
type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ChangePasswordRequest represents the request to change the current user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// CanRegister returns true if the role may be chosen at sign up
func (r Role) CanRegister() bool {
	return r == RoleBuyer || r == RoleSeller
}

// CanSell returns true if the role can manage listings
func (r Role) CanSell() bool {
	return r == RoleSeller
}
