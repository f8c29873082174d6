package entity

import "time"

// Roles assignable to a user. Role is set at creation and changed only by a
// trusted path (seed/ops), never through profile updates.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the aggregate root for the identity domain
// Password holds the bcrypt hash and is never serialized outward.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserRef is the trimmed identity embedded in records that reference a user.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the user's embeddable identity.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
