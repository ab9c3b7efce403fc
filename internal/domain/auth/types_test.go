package auth

import (
	"testing"
)

func TestRoleIsValid(t *testing.T) {
	valid := []Role{RoleAdmin, RoleManager, RoleTester, RoleViewer}
	for _, r := range valid {
		if !r.IsValid() {
			t.Errorf("expected %s to be valid", r)
		}
	}

	invalid := []Role{"", "admin", "SUPERUSER", "Admin"}
	for _, r := range invalid {
		if r.IsValid() {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestHasRole(t *testing.T) {
	u := &User{Role: RoleTester}

	if !u.HasRole(RoleTester) {
		t.Error("expected HasRole(TESTER) to be true")
	}
	if u.HasRole(RoleAdmin) {
		t.Error("expected HasRole(ADMIN) to be false")
	}
	if !u.HasAnyRole(RoleAdmin, RoleTester) {
		t.Error("expected HasAnyRole(ADMIN, TESTER) to be true")
	}
	if u.HasAnyRole(RoleAdmin, RoleManager) {
		t.Error("expected HasAnyRole(ADMIN, MANAGER) to be false")
	}
}

func TestHasRoleNilUser(t *testing.T) {
	var u *User

	if u.HasRole(RoleAdmin) {
		t.Error("nil user must hold no roles")
	}
	if u.HasAnyRole(RoleAdmin, RoleManager, RoleTester, RoleViewer) {
		t.Error("nil user must hold no roles")
	}
}

func TestHasPermission(t *testing.T) {
	u := &User{Permissions: []Permission{PermissionCreateTests}}

	if !u.HasPermission(PermissionCreateTests) {
		t.Error("expected CREATE_TESTS to be held")
	}
	if u.HasPermission(PermissionRunTests) {
		t.Error("expected RUN_TESTS to be absent")
	}
}

func TestHasPermissionNilUser(t *testing.T) {
	var u *User

	// Fail closed: every permission query on an absent user denies.
	if u.HasPermission(PermissionCreateTests) {
		t.Error("nil user must hold no permissions")
	}
	if u.HasAnyPermission(PermissionCreateTests, PermissionRunTests) {
		t.Error("nil user must hold no permissions")
	}
	if u.HasAllPermissions() {
		t.Error("nil user must not hold the empty permission set")
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	u := &User{Permissions: []Permission{PermissionCreateTests, PermissionRunTests}}

	if !u.HasAnyPermission("EXPORT_RESULTS", PermissionRunTests) {
		t.Error("expected any-of match on RUN_TESTS")
	}
	if !u.HasAllPermissions(PermissionCreateTests, PermissionRunTests) {
		t.Error("expected all-of match")
	}
	if u.HasAllPermissions(PermissionCreateTests, "EXPORT_RESULTS") {
		t.Error("expected all-of to fail on missing permission")
	}
	if !u.HasAllPermissions() {
		t.Error("empty all-of set is vacuously held by a present user")
	}
}

func TestCanManageUsers(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleManager, true},
		{RoleTester, false},
		{RoleViewer, false},
	}
	for _, tc := range cases {
		u := &User{Role: tc.role}
		if got := u.CanManageUsers(); got != tc.want {
			t.Errorf("CanManageUsers for %s: got %v, want %v", tc.role, got, tc.want)
		}
	}

	var absent *User
	if absent.CanManageUsers() {
		t.Error("absent user must not manage users")
	}
}
