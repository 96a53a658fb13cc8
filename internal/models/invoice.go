package models

import (
	"strings"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice statuses.
const (
	InvoiceUnpaid    = "unpaid"
	InvoicePartial   = "partial"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

var invoiceStatuses = []string{InvoiceUnpaid, InvoicePartial, InvoicePaid, InvoiceCancelled}

// InvoiceFields are the columns shared by the primary, reimbursement and
// final invoice tables. TotalAmount is expected to equal Subtotal minus
// DownPayment but no constraint enforces it.
type InvoiceFields struct {
	InvoiceNumber   string          `gorm:"size:50;not null;index" json:"invoice_number"`
	JobOrderID      *uuid.UUID      `gorm:"type:uuid;index" json:"job_order_id"`
	JobOrderNumber  string          `gorm:"size:50" json:"job_order_number"`
	CustomerName    string          `gorm:"size:255" json:"customer_name"`
	CustomerAddress string          `gorm:"size:500" json:"customer_address"`
	CustomerCity    string          `gorm:"size:100" json:"customer_city"`
	BLNumber        string          `gorm:"size:100" json:"bl_number"`
	ContainerNumber string          `gorm:"size:100" json:"container_number"`
	VesselName      string          `gorm:"size:255" json:"vessel_name"`
	InvoiceDate     *datatypes.Date `json:"invoice_date"`
	DueDate         *datatypes.Date `json:"due_date"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	DownPayment     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"down_payment"`
	DownPaymentDate *datatypes.Date `json:"down_payment_date"`
	DPItems         datatypes.JSON  `gorm:"column:dp_items" json:"dp_items"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_amount"`
	Status          string          `gorm:"size:20;not null;default:unpaid" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes"`
}

func (f *InvoiceFields) validate(v validation.Violations) {
	validation.Required("invoice_number", f.InvoiceNumber, v)
	validation.NonNegativeDecimal("subtotal", f.Subtotal, v)
	validation.NonNegativeDecimal("down_payment", f.DownPayment, v)
	validation.OneOf("status", f.Status, invoiceStatuses, v)
	if f.InvoiceDate != nil && f.DueDate != nil && DateValue(f.DueDate).Before(DateValue(f.InvoiceDate)) {
		v["due_date"] = "invalid_date"
	}
	if _, err := ParseDPItems(f.DPItems); err != nil {
		v["dp_items"] = "invalid_format"
	}
}

// DownPayments resolves the itemized or legacy down payment of the row.
func (f *InvoiceFields) DownPayments() DownPayment {
	date := f.DownPaymentDate
	if date == nil {
		date = f.InvoiceDate
	}
	return ResolveDownPayment(f.DPItems, f.DownPayment, date)
}

// RemainingAmount is the total minus every resolved down payment.
func (f *InvoiceFields) RemainingAmount() decimal.Decimal {
	return f.TotalAmount.Sub(f.DownPayments().Total())
}

// computeTotals trims the number, defaults the status and derives subtotal
// from items and the total from subtotal minus down payment when the client
// left them at zero.
func (f *InvoiceFields) computeTotals(items []*LineItem) {
	f.InvoiceNumber = strings.TrimSpace(f.InvoiceNumber)
	if f.Status == "" {
		f.Status = InvoiceUnpaid
	}
	if f.Subtotal.IsZero() {
		sum := decimal.Zero
		for _, it := range items {
			it.Normalize()
			sum = sum.Add(it.Amount)
		}
		f.Subtotal = sum
	} else {
		for _, it := range items {
			it.Normalize()
		}
	}
	if f.TotalAmount.IsZero() {
		f.TotalAmount = f.Subtotal.Sub(f.DownPayment)
	}
}

// Invoice is a row of the primary invoices table.
type Invoice struct {
	Base
	InvoiceFields
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

type InvoiceItem struct {
	LineItem
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"invoice_id"`
}

func (i *Invoice) Validate(v validation.Violations) { i.validate(v) }

func (i *Invoice) Normalize() {
	items := make([]*LineItem, len(i.Items))
	for k := range i.Items {
		items[k] = &i.Items[k].LineItem
	}
	i.computeTotals(items)
}

func (*Invoice) ItemModel() any         { return &InvoiceItem{} }
func (*Invoice) ItemForeignKey() string { return "invoice_id" }

func (i *Invoice) PrepareItems() any {
	if len(i.Items) == 0 {
		return nil
	}
	for k := range i.Items {
		i.Items[k].ID = uuid.Nil
		i.Items[k].InvoiceID = i.ID
		i.Items[k].Position = k
	}
	return &i.Items
}

// ReimbursementInvoice bills costs paid on the customer's behalf. It is
// merged with the primary invoice of the same number for reporting.
type ReimbursementInvoice struct {
	Base
	InvoiceFields
	Items []ReimbursementInvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

func (ReimbursementInvoice) TableName() string { return "invoices_reimbursement" }

type ReimbursementInvoiceItem struct {
	LineItem
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"invoice_id"`
}

func (ReimbursementInvoiceItem) TableName() string { return "invoice_reimbursement_items" }

func (i *ReimbursementInvoice) Validate(v validation.Violations) { i.validate(v) }

func (i *ReimbursementInvoice) Normalize() {
	items := make([]*LineItem, len(i.Items))
	for k := range i.Items {
		items[k] = &i.Items[k].LineItem
	}
	i.computeTotals(items)
}

func (*ReimbursementInvoice) ItemModel() any         { return &ReimbursementInvoiceItem{} }
func (*ReimbursementInvoice) ItemForeignKey() string { return "invoice_id" }

func (i *ReimbursementInvoice) PrepareItems() any {
	if len(i.Items) == 0 {
		return nil
	}
	for k := range i.Items {
		i.Items[k].ID = uuid.Nil
		i.Items[k].InvoiceID = i.ID
		i.Items[k].Position = k
	}
	return &i.Items
}

// FinalInvoice is the closing invoice of a job order.
type FinalInvoice struct {
	Base
	InvoiceFields
	Items []FinalInvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

func (FinalInvoice) TableName() string { return "invoices_final" }

type FinalInvoiceItem struct {
	LineItem
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"invoice_id"`
}

func (FinalInvoiceItem) TableName() string { return "invoice_final_items" }

func (i *FinalInvoice) Validate(v validation.Violations) { i.validate(v) }

func (i *FinalInvoice) Normalize() {
	items := make([]*LineItem, len(i.Items))
	for k := range i.Items {
		items[k] = &i.Items[k].LineItem
	}
	i.computeTotals(items)
}

func (*FinalInvoice) ItemModel() any         { return &FinalInvoiceItem{} }
func (*FinalInvoice) ItemForeignKey() string { return "invoice_id" }

func (i *FinalInvoice) PrepareItems() any {
	if len(i.Items) == 0 {
		return nil
	}
	for k := range i.Items {
		i.Items[k].ID = uuid.Nil
		i.Items[k].InvoiceID = i.ID
		i.Items[k].Position = k
	}
	return &i.Items
}

// Payment methods accepted for down payments.
var PaymentMethods = []string{"cash", "transfer", "giro", "cheque"}

// InvoiceDP is a down payment received against an invoice number.
type InvoiceDP struct {
	Base
	DPNumber       string          `gorm:"size:50;not null;index" json:"dp_number"`
	InvoiceNumber  string          `gorm:"size:50;index" json:"invoice_number"`
	JobOrderNumber string          `gorm:"size:50" json:"job_order_number"`
	CustomerName   string          `gorm:"size:255" json:"customer_name"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaymentDate    *datatypes.Date `json:"payment_date"`
	PaymentMethod  string          `gorm:"size:50" json:"payment_method"`
	Notes          string          `gorm:"type:text" json:"notes"`
}

func (InvoiceDP) TableName() string { return "invoice_dp" }

func (d *InvoiceDP) Validate(v validation.Violations) {
	validation.PositiveDecimal("amount", d.Amount, v)
	if d.PaymentMethod != "" {
		validation.OneOf("payment_method", d.PaymentMethod, PaymentMethods, v)
	}
}
