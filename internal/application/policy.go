package application

import "github.com/oksasatya/bug-tracker-api/internal/domain/entity"

// Principal is the authenticated caller: the id from the verified token and
// the role re-read from the credential store at request time. It is built once
// by the auth middleware and passed explicitly into every service call.
type Principal struct {
	ID   string
	Role string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

// CanMutate decides whether a principal may update or delete a bug: the
// creator may, and admins may regardless of ownership. Reads are not gated by
// ownership, only by authentication.
func CanMutate(p Principal, b *entity.Bug) bool {
	return p.ID == b.CreatedBy || p.IsAdmin()
}
