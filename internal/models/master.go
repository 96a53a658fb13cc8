package models

import (
	"strings"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/validation"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Customer is a shipper or consignee billed by the company.
type Customer struct {
	Base
	Name          string `gorm:"size:255;not null;index" json:"name"`
	CompanyType   string `gorm:"size:50" json:"company_type"`
	Address       string `gorm:"size:500" json:"address"`
	City          string `gorm:"size:100" json:"city"`
	Phone         string `gorm:"size:50" json:"phone"`
	Email         string `gorm:"size:255" json:"email"`
	ContactPerson string `gorm:"size:255" json:"contact_person"`
	NPWP          string `gorm:"size:50" json:"npwp"`
	Notes         string `gorm:"type:text" json:"notes"`
}

func (c *Customer) Validate(v validation.Violations) {
	validation.Required("name", c.Name, v)
	validation.MaxLen("name", c.Name, 255, v)
	validation.Email("email", c.Email, v)
}

// Vendor supplies trucking, depot or customs services.
type Vendor struct {
	Base
	Name          string `gorm:"size:255;not null;index" json:"name"`
	ServiceType   string `gorm:"size:100" json:"service_type"`
	Address       string `gorm:"size:500" json:"address"`
	City          string `gorm:"size:100" json:"city"`
	Phone         string `gorm:"size:50" json:"phone"`
	Email         string `gorm:"size:255" json:"email"`
	ContactPerson string `gorm:"size:255" json:"contact_person"`
	BankAccount   string `gorm:"size:100" json:"bank_account"`
	Notes         string `gorm:"type:text" json:"notes"`
}

func (s *Vendor) Validate(v validation.Violations) {
	validation.Required("name", s.Name, v)
	validation.MaxLen("name", s.Name, 255, v)
	validation.Email("email", s.Email, v)
}

// Truck statuses.
const (
	TruckAvailable   = "available"
	TruckOnDuty      = "on_duty"
	TruckMaintenance = "maintenance"
)

// Truck is a fleet vehicle together with its assigned driver.
type Truck struct {
	Base
	PlateNumber   string          `gorm:"size:20;not null;index" json:"plate_number"`
	TruckType     string          `gorm:"size:50" json:"truck_type"`
	Brand         string          `gorm:"size:100" json:"brand"`
	Year          int             `json:"year"`
	DriverName    string          `gorm:"size:255" json:"driver_name"`
	DriverPhone   string          `gorm:"size:50" json:"driver_phone"`
	DriverLicense string          `gorm:"size:50" json:"driver_license"`
	STNKExpiry    *datatypes.Date `json:"stnk_expiry"`
	KIRExpiry     *datatypes.Date `json:"kir_expiry"`
	Status        string          `gorm:"size:20;not null;default:available" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`
}

func (t *Truck) Validate(v validation.Violations) {
	validation.Required("plate_number", t.PlateNumber, v)
	validation.OneOf("status", t.Status, []string{TruckAvailable, TruckOnDuty, TruckMaintenance}, v)
	if t.Year != 0 {
		validation.RangeFloat("year", float64(t.Year), 1950, 2100, v)
	}
}

// Normalize upper-cases the plate number, collapses its spacing and
// defaults the status.
func (t *Truck) Normalize() {
	t.PlateNumber = strings.ToUpper(strings.Join(strings.Fields(t.PlateNumber), " "))
	if t.Status == "" {
		t.Status = TruckAvailable
	}
}

// Warehouse records cargo stored at a depot for a customer.
type Warehouse struct {
	Base
	Name            string          `gorm:"size:255;not null;index" json:"name"`
	Location        string          `gorm:"size:255" json:"location"`
	CustomerName    string          `gorm:"size:255" json:"customer_name"`
	JobOrderNumber  string          `gorm:"size:50" json:"job_order_number"`
	ItemDescription string          `gorm:"size:500" json:"item_description"`
	Quantity        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"quantity"`
	Unit            string          `gorm:"size:50" json:"unit"`
	InDate          *datatypes.Date `json:"in_date"`
	OutDate         *datatypes.Date `json:"out_date"`
	Status          string          `gorm:"size:20" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes"`
}

func (w *Warehouse) Validate(v validation.Violations) {
	validation.Required("name", w.Name, v)
	validation.NonNegativeDecimal("quantity", w.Quantity, v)
	if w.InDate != nil && w.OutDate != nil && DateValue(w.OutDate).Before(DateValue(w.InDate)) {
		v["out_date"] = "invalid_date"
	}
}
