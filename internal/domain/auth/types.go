// Package auth contains the domain types and logic for authentication
// and authorization against the Smart Turbo backend.
package auth

import (
	"time"
)

// Role represents a user role for authorization purposes.
type Role string

const (
	// RoleAdmin has full access to all operations, including user management.
	RoleAdmin Role = "ADMIN"
	// RoleManager can manage users and tests but not platform settings.
	RoleManager Role = "MANAGER"
	// RoleTester can create and run tests.
	RoleTester Role = "TESTER"
	// RoleViewer has read-only access to tests and results.
	RoleViewer Role = "VIEWER"
)

// IsValid returns true if the role is a known valid role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTester, RoleViewer:
		return true
	default:
		return false
	}
}

// Status represents the lifecycle state of a user account.
type Status string

const (
	// StatusActive accounts can log in and use the platform.
	StatusActive Status = "ACTIVE"
	// StatusInactive accounts are disabled but retained.
	StatusInactive Status = "INACTIVE"
	// StatusLocked accounts are blocked after repeated auth failures.
	StatusLocked Status = "LOCKED"
)

// Permission is a fine-grained named capability, independent of role.
type Permission string

const (
	// PermissionCreateTests allows creating test definitions.
	PermissionCreateTests Permission = "CREATE_TESTS"
	// PermissionRunTests allows starting test executions.
	PermissionRunTests Permission = "RUN_TESTS"
)

// User is the profile snapshot returned by the backend.
type User struct {
	// ID is the unique numeric identifier.
	ID int64 `json:"id"`
	// Username is the login name.
	Username string `json:"username"`
	// Email is the contact address.
	Email string `json:"email"`
	// FullName is the optional display name.
	FullName string `json:"fullName,omitempty"`
	// Role is the coarse-grained user category.
	Role Role `json:"role"`
	// Permissions are the capability tags held by this user.
	Permissions []Permission `json:"permissions"`
	// Status is the account lifecycle state.
	Status Status `json:"status"`
	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the account was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
	// LastLoginAt is the last successful login time (nil = never).
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// HasRole returns true if the user holds the specified role.
// A nil user holds no roles.
func (u *User) HasRole(role Role) bool {
	return u != nil && u.Role == role
}

// HasAnyRole returns true if the user holds any of the specified roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// HasPermission returns true if the user holds the specified permission.
// A nil user holds no permissions.
func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// HasAnyPermission returns true if the user holds at least one of the
// specified permissions.
func (u *User) HasAnyPermission(perms ...Permission) bool {
	for _, p := range perms {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions returns true if the user holds every one of the
// specified permissions. An empty set is vacuously held, but never by
// a nil user.
func (u *User) HasAllPermissions(perms ...Permission) bool {
	if u == nil {
		return false
	}
	for _, p := range perms {
		if !u.HasPermission(p) {
			return false
		}
	}
	return true
}

// CanManageUsers returns true for roles allowed to administer accounts.
func (u *User) CanManageUsers() bool {
	return u.HasAnyRole(RoleAdmin, RoleManager)
}
