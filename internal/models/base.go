package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base carries the identity and soft-delete columns shared by every
// recyclable table. A row is live while DeletedAt is null.
type Base struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// BeforeCreate assigns a random id when the caller did not provide one.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BaseFields exposes the embedded Base to generic code.
func (b *Base) BaseFields() *Base { return b }

// Record is implemented by every soft-deletable model through Base.
type Record interface {
	BaseFields() *Base
}

// ItemizedRecord is a Record that owns a line-item table. Items are never
// diffed: on update they are deleted by foreign key and reinserted.
type ItemizedRecord interface {
	Record
	// ItemModel returns a zero item used to target the item table.
	ItemModel() any
	// ItemForeignKey is the column that points items at their parent.
	ItemForeignKey() string
	// PrepareItems binds the items to the parent id with fresh ids and
	// returns a pointer to the slice, or nil when there are no items.
	PrepareItems() any
}

// LineItem holds the columns shared by all line-item tables. Items are
// hard-deleted together with their parent.
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"quantity"`
	Unit        string          `gorm:"size:50" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Position    int             `gorm:"default:0" json:"position"`
}

func (i *LineItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Normalize defaults the quantity to one and fills Amount from quantity and
// unit price when it was omitted.
func (i *LineItem) Normalize() {
	if i.Quantity.IsZero() {
		i.Quantity = decimal.NewFromInt(1)
	}
	if i.Amount.IsZero() {
		i.Amount = i.Quantity.Mul(i.UnitPrice)
	}
}

// All lists every table model in migration order.
func All() []any {
	return []any{
		&Customer{}, &Vendor{}, &Truck{}, &Warehouse{},
		&JobOrder{}, &Expense{}, &Tracking{},
		&Quotation{}, &QuotationItem{},
		&Invoice{}, &InvoiceItem{},
		&ReimbursementInvoice{}, &ReimbursementInvoiceItem{},
		&FinalInvoice{}, &FinalInvoiceItem{},
		&InvoiceDP{},
		&UserRole{}, &Profile{},
	}
}
