package models

import "strings"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleStudent       UserRole = "student"
	RoleStoreVendor   UserRole = "store_vendor"
	RoleCanteenVendor UserRole = "canteen_vendor"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleStoreVendor, RoleCanteenVendor:
		return true
	}
	return false
}

// IsVendor is the capability check for the vendor dashboard
func (r UserRole) IsVendor() bool {
	return r == RoleStoreVendor || r == RoleCanteenVendor
}

// Dashboard names the vendor view a role lands on
type Dashboard string

const (
	DashboardStore   Dashboard = "store"
	DashboardCanteen Dashboard = "canteen"
)

// DefaultDashboard returns the vendor view opened first for the role.
// Students have no dashboard and get "".
func (r UserRole) DefaultDashboard() Dashboard {
	switch r {
	case RoleStoreVendor:
		return DashboardStore
	case RoleCanteenVendor:
		return DashboardCanteen
	}
	return ""
}

// User is an account from the baseline catalog or a local signup.
// Password is either a bcrypt hash (local signups) or the plaintext seed value.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
	Avatar   string   `json:"avatar"`
}

// NormalizeEmail trims and case-folds an address for comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares two addresses case-insensitively
func (u User) SameEmail(email string) bool {
	return NormalizeEmail(u.Email) == NormalizeEmail(email)
}
