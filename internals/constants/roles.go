package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleManager = "manager"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess  = "Only admin, staff or manager accounts may use %s."
	ErrOnlyAdminsCanAccess = "Only admin accounts may use %s."
	ErrLedgerWriters       = "Only admin or staff accounts may change %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorWriter(feature string) string {
	return fmt.Sprintf(ErrLedgerWriters, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleStaff,
		RoleManager,
	}

	// LedgerWriters may record disbursements and edit allocations.
	LedgerWriters = []string{
		RoleAdmin,
		RoleStaff,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
