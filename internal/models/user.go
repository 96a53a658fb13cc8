package models

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleAdmin is the only role with meaning to authorization.
const RoleAdmin = "admin"

// KnownRoles are the roles the admin panel may assign.
var KnownRoles = []string{RoleAdmin, "staff", "finance", "operations"}

// UserRole links an external user id to a role. (user_id, role) is unique.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role      string    `gorm:"size:50;not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *UserRole) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ApprovalStatus is the account approval state of a user.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// CanTransition reports whether an admin may move a user from s to next.
// Repeating the current state is allowed and is a no-op.
func (s ApprovalStatus) CanTransition(next ApprovalStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case ApprovalPending:
		return next == ApprovalApproved || next == ApprovalRejected
	case ApprovalRejected:
		return next == ApprovalApproved
	}
	return false
}

// Profile holds the per-user attributes managed by the admin panel. The
// identity itself lives with the external auth provider.
type Profile struct {
	UserID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Email          string         `gorm:"size:255;index" json:"email"`
	FullName       string         `gorm:"size:255" json:"full_name"`
	ApprovalStatus ApprovalStatus `gorm:"size:20;not null;default:pending" json:"approval_status"`
	MenuAccess     datatypes.JSON `json:"menu_access"`
	ApprovedBy     *uuid.UUID     `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt     *time.Time     `json:"approved_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// MenuKeys decodes the stored menu access list; invalid JSON reads as empty.
func (p *Profile) MenuKeys() []string {
	if len(p.MenuAccess) == 0 {
		return []string{}
	}
	var keys []string
	if err := json.Unmarshal(p.MenuAccess, &keys); err != nil || keys == nil {
		return []string{}
	}
	return keys
}

// SetMenuKeys encodes keys into MenuAccess.
func (p *Profile) SetMenuKeys(keys []string) {
	if keys == nil {
		keys = []string{}
	}
	b, _ := json.Marshal(keys)
	p.MenuAccess = datatypes.JSON(b)
}

// Menu keys of the top-level navigation sections.
const (
	MenuDashboard     = "dashboard"
	MenuCustomers     = "customers"
	MenuVendors       = "vendors"
	MenuTrucks        = "trucks"
	MenuJobOrders     = "job-orders"
	MenuQuotations    = "quotations"
	MenuInvoices      = "invoices"
	MenuInvoiceDP     = "invoice-dp"
	MenuReimbursement = "invoices-reimbursement"
	MenuFinalInvoices = "invoices-final"
	MenuExpenses      = "expenses"
	MenuTracking      = "tracking"
	MenuWarehouse     = "warehouse"
	MenuReports       = "reports"
	MenuRecycleBin    = "recycle-bin"
)

// AllMenuKeys is the full key set; admins always receive it.
var AllMenuKeys = []string{
	MenuDashboard, MenuCustomers, MenuVendors, MenuTrucks, MenuJobOrders,
	MenuQuotations, MenuInvoices, MenuInvoiceDP, MenuReimbursement,
	MenuFinalInvoices, MenuExpenses, MenuTracking, MenuWarehouse,
	MenuReports, MenuRecycleBin,
}

// IsMenuKey reports whether key belongs to AllMenuKeys.
func IsMenuKey(key string) bool { return slices.Contains(AllMenuKeys, key) }
