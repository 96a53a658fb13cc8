package models

import (
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Quotation statuses.
const (
	QuotationDraft    = "draft"
	QuotationSent     = "sent"
	QuotationAccepted = "accepted"
	QuotationRejected = "rejected"
)

// Quotation is a price offer (penawaran) sent to a customer.
type Quotation struct {
	Base
	QuotationNumber string          `gorm:"size:50;not null;index" json:"quotation_number"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	CustomerName    string          `gorm:"size:255" json:"customer_name"`
	CustomerAddress string          `gorm:"size:500" json:"customer_address"`
	CustomerCity    string          `gorm:"size:100" json:"customer_city"`
	Attention       string          `gorm:"size:255" json:"attention"`
	Origin          string          `gorm:"size:255" json:"origin"`
	Destination     string          `gorm:"size:255" json:"destination"`
	QuotationDate   *datatypes.Date `json:"quotation_date"`
	ValidUntil      *datatypes.Date `json:"valid_until"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	Status          string          `gorm:"size:20;not null;default:draft" json:"status"`
	Terms           string          `gorm:"type:text" json:"terms"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Items           []QuotationItem `gorm:"foreignKey:QuotationID" json:"items"`
}

type QuotationItem struct {
	LineItem
	QuotationID uuid.UUID `gorm:"type:uuid;index;not null" json:"quotation_id"`
}

func (q *Quotation) Validate(v validation.Violations) {
	if q.CustomerID == nil {
		validation.Required("customer_name", q.CustomerName, v)
	}
	validation.OneOf("status", q.Status, []string{QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected}, v)
	if q.QuotationDate != nil && q.ValidUntil != nil && DateValue(q.ValidUntil).Before(DateValue(q.QuotationDate)) {
		v["valid_until"] = "invalid_date"
	}
	for _, it := range q.Items {
		if it.Description == "" {
			v["items"] = "required"
			break
		}
	}
}

// Normalize defaults the status and recomputes the subtotal from the items.
func (q *Quotation) Normalize() {
	if q.Status == "" {
		q.Status = QuotationDraft
	}
	if len(q.Items) == 0 {
		return
	}
	sum := decimal.Zero
	for k := range q.Items {
		q.Items[k].Normalize()
		sum = sum.Add(q.Items[k].Amount)
	}
	q.Subtotal = sum
}

func (*Quotation) ItemModel() any         { return &QuotationItem{} }
func (*Quotation) ItemForeignKey() string { return "quotation_id" }

func (q *Quotation) PrepareItems() any {
	if len(q.Items) == 0 {
		return nil
	}
	for k := range q.Items {
		q.Items[k].ID = uuid.Nil
		q.Items[k].QuotationID = q.ID
		q.Items[k].Position = k
	}
	return &q.Items
}
