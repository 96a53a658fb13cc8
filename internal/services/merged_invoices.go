package services

import (
	"context"
	"sort"
	"strings"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MergedInvoice joins the primary and reimbursement invoices sharing one
// invoice number.
type MergedInvoice struct {
	InvoiceNumber   string          `json:"invoice_number"`
	InvoiceID       *uuid.UUID      `json:"invoice_id"`
	ReimbursementID *uuid.UUID      `json:"reimbursement_id"`
	JobOrderNumber  string          `json:"job_order_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	CustomerCity    string          `json:"customer_city"`
	BLNumber        string          `json:"bl_number"`
	ContainerNumber string          `json:"container_number"`
	VesselName      string          `json:"vessel_name"`
	InvoiceDate     *datatypes.Date `json:"invoice_date"`
	DueDate         *datatypes.Date `json:"due_date"`
	Status          string          `json:"status"`

	ReimbursementTotal decimal.Decimal `json:"reimbursement_total"`
	InvoiceTotal       decimal.Decimal `json:"invoice_total"`
	CombinedTotal      decimal.Decimal `json:"combined_total"`

	DownPayment      models.DownPayment `json:"-"`
	DPItems          []models.DPEntry   `json:"dp_items"`
	DownPaymentTotal decimal.Decimal    `json:"down_payment_total"`
	RemainingAmount  decimal.Decimal    `json:"remaining_amount"`
}

// DetailedItem is one line of a merged invoice detail.
type DetailedItem struct {
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Item sources of DetailedItem.
const (
	SourceReimbursement = "reimbursement"
	SourceInvoice       = "invoice"
)

// MergedInvoices builds the combined invoice view.
type MergedInvoices struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewMergedInvoices(db *gorm.DB, c *cache.Cache) *MergedInvoices {
	return &MergedInvoices{db: db, cache: c}
}

// List returns one entry per invoice number found in either table, newest
// invoice date first. When a table holds the same number twice the oldest
// row wins.
func (m *MergedInvoices) List(ctx context.Context) ([]MergedInvoice, error) {
	return cache.Load(m.cache, cache.Key{Entity: cache.TagMergedInvoices}, func() ([]MergedInvoice, error) {
		var reimbursements []models.ReimbursementInvoice
		if err := m.db.WithContext(ctx).Order("created_at ASC").Find(&reimbursements).Error; err != nil {
			return nil, err
		}
		var invoices []models.Invoice
		if err := m.db.WithContext(ctx).Order("created_at ASC").Find(&invoices).Error; err != nil {
			return nil, err
		}
		return mergeInvoices(reimbursements, invoices), nil
	})
}

func mergeInvoices(reimbursements []models.ReimbursementInvoice, invoices []models.Invoice) []MergedInvoice {
	byNumber := map[string]*models.ReimbursementInvoice{}
	invByNumber := map[string]*models.Invoice{}
	var order []string
	seen := map[string]bool{}
	note := func(n string) {
		if !seen[n] {
			seen[n] = true
			order = append(order, n)
		}
	}
	for i := range reimbursements {
		n := strings.TrimSpace(reimbursements[i].InvoiceNumber)
		if n == "" {
			continue
		}
		if _, ok := byNumber[n]; !ok {
			byNumber[n] = &reimbursements[i]
		}
		note(n)
	}
	for i := range invoices {
		n := strings.TrimSpace(invoices[i].InvoiceNumber)
		if n == "" {
			continue
		}
		if _, ok := invByNumber[n]; !ok {
			invByNumber[n] = &invoices[i]
		}
		note(n)
	}

	out := make([]MergedInvoice, 0, len(order))
	for _, n := range order {
		out = append(out, mergeOne(n, byNumber[n], invByNumber[n]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].InvoiceDate, out[j].InvoiceDate
		switch {
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		case di != nil && dj != nil:
			ti, tj := models.DateValue(di), models.DateValue(dj)
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
		}
		return out[i].InvoiceNumber < out[j].InvoiceNumber
	})
	return out
}

func mergeOne(number string, r *models.ReimbursementInvoice, inv *models.Invoice) MergedInvoice {
	e := MergedInvoice{
		InvoiceNumber:      number,
		ReimbursementTotal: decimal.Zero,
		InvoiceTotal:       decimal.Zero,
	}
	// descriptive fields come from the reimbursement row when both exist
	var src *models.InvoiceFields
	if inv != nil {
		id := inv.ID
		e.InvoiceID = &id
		e.InvoiceTotal = inv.TotalAmount
		src = &inv.InvoiceFields
	}
	if r != nil {
		id := r.ID
		e.ReimbursementID = &id
		e.ReimbursementTotal = r.TotalAmount
		src = &r.InvoiceFields
	}
	e.JobOrderNumber = src.JobOrderNumber
	e.CustomerName = src.CustomerName
	e.CustomerAddress = src.CustomerAddress
	e.CustomerCity = src.CustomerCity
	e.BLNumber = src.BLNumber
	e.ContainerNumber = src.ContainerNumber
	e.VesselName = src.VesselName
	e.InvoiceDate = src.InvoiceDate
	e.DueDate = src.DueDate
	e.Status = src.Status

	e.CombinedTotal = e.ReimbursementTotal.Add(e.InvoiceTotal)
	if inv != nil {
		e.DownPayment = inv.DownPayments()
	} else {
		e.DownPayment = models.NoDP{}
	}
	e.DPItems = e.DownPayment.Entries()
	e.DownPaymentTotal = e.DownPayment.Total()
	e.RemainingAmount = e.CombinedTotal.Sub(e.DownPaymentTotal)
	return e
}

// Get returns the merged entry for one invoice number.
func (m *MergedInvoices) Get(ctx context.Context, number string) (*MergedInvoice, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	number = strings.TrimSpace(number)
	for i := range all {
		if all[i].InvoiceNumber == number {
			e := all[i]
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// DetailedItems lists the line items of both sides, reimbursement first. A
// side with a total but no stored items gets one placeholder line.
func (m *MergedInvoices) DetailedItems(ctx context.Context, e *MergedInvoice) ([]DetailedItem, error) {
	out := make([]DetailedItem, 0)
	if e.ReimbursementID != nil {
		var items []models.ReimbursementInvoiceItem
		if err := m.db.WithContext(ctx).Where("invoice_id = ?", *e.ReimbursementID).Order("position ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		lines := make([]models.LineItem, len(items))
		for i := range items {
			lines[i] = items[i].LineItem
		}
		out = append(out, detailLines(SourceReimbursement, "Reimbursement - ", lines, e.ReimbursementTotal)...)
	}
	if e.InvoiceID != nil {
		var items []models.InvoiceItem
		if err := m.db.WithContext(ctx).Where("invoice_id = ?", *e.InvoiceID).Order("position ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		lines := make([]models.LineItem, len(items))
		for i := range items {
			lines[i] = items[i].LineItem
		}
		out = append(out, detailLines(SourceInvoice, "Invoice - ", lines, e.InvoiceTotal)...)
	}
	return out, nil
}

func detailLines(source, prefix string, lines []models.LineItem, total decimal.Decimal) []DetailedItem {
	if len(lines) == 0 {
		if total.IsZero() {
			return nil
		}
		return []DetailedItem{{
			Source:      source,
			Description: prefix + "Total",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   total,
			Amount:      total,
		}}
	}
	out := make([]DetailedItem, len(lines))
	for i, l := range lines {
		out[i] = DetailedItem{
			Source:      source,
			Description: prefix + l.Description,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		}
	}
	return out
}
