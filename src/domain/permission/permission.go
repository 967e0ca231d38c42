package permission

import (
	"fmt"
)

// Permission is the codename of a capability granted to a role
type Permission string

const (
	ViewRecipient  Permission = "can_view_recipient"
	ViewMessage    Permission = "can_view_message"
	ViewMailing    Permission = "can_view_mailing"
	ViewAttempt    Permission = "can_view_attempt"
	DisableMailing Permission = "can_disable_mailing"
	ViewUserList   Permission = "can_view_user_list"
	BlockUser      Permission = "can_block_user"
)

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

func All() []Permission {
	return []Permission{ViewRecipient, ViewMessage, ViewMailing, ViewAttempt, DisableMailing, ViewUserList, BlockUser}
}

// ManagerDefaults are the permissions granted to the manager role by create-group-manager
func ManagerDefaults() []Permission {
	return []Permission{ViewUserList, BlockUser, ViewMailing, DisableMailing}
}

func (p Permission) IsValid() bool {
	for _, known := range All() {
		if p == known {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleManager || role == RoleAdmin
}

type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// RolePermission is one grant stored for a role
type RolePermission struct {
	ID         int
	Role       string
	Permission Permission
}

// Identity is the authenticated caller as seen by the use cases
type Identity struct {
	UserID      int
	Role        string
	Permissions Set
}

// Can reports whether the identity holds p. Admins hold every permission.
func (i Identity) Can(p Permission) bool {
	if i.Role == RoleAdmin {
		return true
	}
	return i.Permissions.Has(p)
}

// OwnerScope returns nil when the identity may see every row guarded by elevated,
// otherwise the identity's own user id.
func (i Identity) OwnerScope(elevated Permission) *int {
	if i.Can(elevated) {
		return nil
	}
	id := i.UserID
	return &id
}

// CanAccess reports whether a row owned by ownerID is visible to the identity
func (i Identity) CanAccess(ownerID *int, elevated Permission) bool {
	if i.Can(elevated) {
		return true
	}
	return ownerID != nil && *ownerID == i.UserID
}

// ScopeKey identifies the result set an identity sees for elevated, for use in cache keys
func (i Identity) ScopeKey(elevated Permission) string {
	if i.Can(elevated) {
		return "all"
	}
	return fmt.Sprintf("user:%d", i.UserID)
}

type IPermissionService interface {
	GetByRole(role string) (*[]RolePermission, error)
	Grant(role string, perms ...Permission) error
}
