package model

import "slices"

// UserID uniquely identifies a user account
type UserID string

// Role is the account type shown in the profile and used for admin gating
type Role string

const (
	RolePlayer       Role = "Player"
	RoleCoach        Role = "Coach"
	RoleAdmin        Role = "Admin"
	RoleShopOwner    Role = "Shop Owner"
	RoleComplexOwner Role = "Complex Owner"
)

// adminRoles may open the management area
var adminRoles = []Role{RoleAdmin, RoleShopOwner, RoleComplexOwner, RoleCoach}

// CanAccessAdmin reports whether the role may open the management area
func (r Role) CanAccessAdmin() bool {
	return slices.Contains(adminRoles, r)
}

// User is a registered account. The stored account list keeps the password;
// everything handed to callers goes through Public first.
type User struct {
	ID       UserID   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"` // plaintext, demo accounts only
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Bio      string   `json:"bio"`
	Role     Role     `json:"role"`
	JoinDate string   `json:"joinDate"` // YYYY-MM-DD
	Sports   []string `json:"sports"`
	Avatar   string   `json:"avatar"`
}

// Public returns a copy of the user with the password stripped
func (u User) Public() User {
	out := u
	out.Password = ""
	out.Sports = slices.Clone(u.Sports)
	return out
}
