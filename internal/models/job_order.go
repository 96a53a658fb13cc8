package models

import (
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Job order statuses.
const (
	JobOrderPending    = "pending"
	JobOrderInProgress = "in_progress"
	JobOrderCompleted  = "completed"
	JobOrderCancelled  = "cancelled"
)

// JobOrder is the central operational record. Invoices, expenses and
// trackings reference it loosely by id or number; deleting it leaves them
// untouched.
type JobOrder struct {
	Base
	JobOrderNumber   string          `gorm:"size:50;not null;index" json:"job_order_number"`
	CustomerID       *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	CustomerName     string          `gorm:"size:255" json:"customer_name"`
	BLNumber         string          `gorm:"size:100" json:"bl_number"`
	ContainerNumber  string          `gorm:"size:100" json:"container_number"`
	ContainerSize    string          `gorm:"size:20" json:"container_size"`
	VesselName       string          `gorm:"size:255" json:"vessel_name"`
	Origin           string          `gorm:"size:255" json:"origin"`
	Destination      string          `gorm:"size:255" json:"destination"`
	CargoDescription string          `gorm:"type:text" json:"cargo_description"`
	TruckID          *uuid.UUID      `gorm:"type:uuid;index" json:"truck_id"`
	OrderDate        *datatypes.Date `json:"order_date"`
	Status           string          `gorm:"size:20;not null;default:pending" json:"status"`
	Notes            string          `gorm:"type:text" json:"notes"`
}

func (j *JobOrder) Validate(v validation.Violations) {
	if j.CustomerID == nil {
		validation.Required("customer_name", j.CustomerName, v)
	}
	validation.OneOf("status", j.Status, []string{JobOrderPending, JobOrderInProgress, JobOrderCompleted, JobOrderCancelled}, v)
}

func (j *JobOrder) Normalize() {
	if j.Status == "" {
		j.Status = JobOrderPending
	}
}

// Expense categories used by the expense form.
var ExpenseCategories = []string{"trucking", "thc", "storage", "customs", "fuel", "toll", "salary", "maintenance", "other"}

// Expense is money spent on a job order or on operations in general.
type Expense struct {
	Base
	JobOrderID     *uuid.UUID      `gorm:"type:uuid;index" json:"job_order_id"`
	JobOrderNumber string          `gorm:"size:50" json:"job_order_number"`
	Category       string          `gorm:"size:50;not null" json:"category"`
	Description    string          `gorm:"size:500;not null" json:"description"`
	VendorName     string          `gorm:"size:255" json:"vendor_name"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	ExpenseDate    *datatypes.Date `json:"expense_date"`
	PaymentMethod  string          `gorm:"size:50" json:"payment_method"`
	Notes          string          `gorm:"type:text" json:"notes"`
}

func (e *Expense) Validate(v validation.Violations) {
	validation.Required("description", e.Description, v)
	validation.Required("category", e.Category, v)
	if e.Category != "" {
		validation.OneOf("category", e.Category, ExpenseCategories, v)
	}
	validation.PositiveDecimal("amount", e.Amount, v)
}

// Tracking statuses in shipment order.
var TrackingStatuses = []string{"booked", "pickup", "in_transit", "at_port", "customs", "delivered"}

// Tracking is one position/status update of a shipment.
type Tracking struct {
	Base
	JobOrderID      *uuid.UUID `gorm:"type:uuid;index" json:"job_order_id"`
	JobOrderNumber  string     `gorm:"size:50" json:"job_order_number"`
	ContainerNumber string     `gorm:"size:100" json:"container_number"`
	Location        string     `gorm:"size:255;not null" json:"location"`
	Status          string     `gorm:"size:30;not null" json:"status"`
	TrackedAt       *time.Time `json:"tracked_at"`
	Notes           string     `gorm:"type:text" json:"notes"`
}

func (t *Tracking) Validate(v validation.Violations) {
	validation.Required("location", t.Location, v)
	validation.Required("status", t.Status, v)
	if t.Status != "" {
		validation.OneOf("status", t.Status, TrackingStatuses, v)
	}
}
