package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUnknownTable is returned for a table name without a descriptor.
var ErrUnknownTable = errors.New("unknown recycle bin table")

// BinEntry is one soft-deleted row in display form.
type BinEntry struct {
	ID          uuid.UUID `json:"id"`
	TableName   string    `json:"table_name"`
	Label       string    `json:"label"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	DeletedAt   time.Time `json:"deleted_at"`
	Data        any       `json:"data"`
}

// BinTarget addresses one row for restore or purge.
type BinTarget struct {
	ID        uuid.UUID `json:"id"`
	TableName string    `json:"table_name"`
}

// childTable is a line-item table purged together with its parent.
type childTable struct {
	Table      string
	ForeignKey string
}

// Descriptor binds everything the recycle bin knows about one table.
type Descriptor struct {
	Table string
	Label string
	// CacheKey is the accessor cache entity, which differs from Table for invoice_dp.
	CacheKey   string
	Dependents []string
	Children   []childTable

	model func() any
	load  func(ctx context.Context, db *gorm.DB, d *Descriptor) ([]BinEntry, error)
}

func describe[T any, PT interface {
	*T
	models.Record
}](table, label, cacheKey string, name, desc func(PT) string) *Descriptor {
	return &Descriptor{
		Table:    table,
		Label:    label,
		CacheKey: cacheKey,
		model:    func() any { return PT(new(T)) },
		load: func(ctx context.Context, db *gorm.DB, d *Descriptor) ([]BinEntry, error) {
			var rows []T
			err := db.WithContext(ctx).Unscoped().
				Where("deleted_at IS NOT NULL").
				Order("deleted_at DESC").
				Find(&rows).Error
			if err != nil {
				return nil, err
			}
			out := make([]BinEntry, 0, len(rows))
			for i := range rows {
				rec := PT(&rows[i])
				base := rec.BaseFields()
				out = append(out, BinEntry{
					ID:          base.ID,
					TableName:   d.Table,
					Label:       d.Label,
					DisplayName: orDash(name(rec)),
					Description: orDash(desc(rec)),
					DeletedAt:   base.DeletedAt.Time,
					Data:        rec,
				})
			}
			return out, nil
		},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func invoiceDescription(f *models.InvoiceFields) string {
	return joinNonEmpty(" - ", f.CustomerName, i18n.FormatRupiah(f.TotalAmount))
}

// Descriptors returns the recycle bin tables in display order.
func Descriptors() []*Descriptor {
	invoiceDeps := []string{cache.TagMergedInvoices, cache.TagDashboard}
	ds := []*Descriptor{
		describe("customers", "Customer", TagCustomers,
			func(c *models.Customer) string { return c.Name },
			func(c *models.Customer) string { return joinNonEmpty(" - ", c.City, c.Phone) }),
		describe("vendors", "Vendor", TagVendors,
			func(v *models.Vendor) string { return v.Name },
			func(v *models.Vendor) string { return joinNonEmpty(" - ", v.ServiceType, v.City) }),
		describe("trucks", "Truck", TagTrucks,
			func(t *models.Truck) string { return t.PlateNumber },
			func(t *models.Truck) string { return joinNonEmpty(" - ", t.TruckType, t.DriverName) }),
		describe("job_orders", "Job Order", TagJobOrders,
			func(j *models.JobOrder) string { return j.JobOrderNumber },
			func(j *models.JobOrder) string { return joinNonEmpty(" - ", j.CustomerName, j.ContainerNumber) }),
		describe("invoices", "Invoice", TagInvoices,
			func(i *models.Invoice) string { return i.InvoiceNumber },
			func(i *models.Invoice) string { return invoiceDescription(&i.InvoiceFields) }),
		describe("invoice_dp", "Invoice DP", TagInvoiceDP,
			func(d *models.InvoiceDP) string { return d.DPNumber },
			func(d *models.InvoiceDP) string {
				return joinNonEmpty(" - ", d.CustomerName, i18n.FormatRupiah(d.Amount))
			}),
		describe("expenses", "Expense", TagExpenses,
			func(e *models.Expense) string { return e.Description },
			func(e *models.Expense) string { return joinNonEmpty(" - ", e.Category, i18n.FormatRupiah(e.Amount)) }),
		describe("quotations", "Quotation", TagQuotations,
			func(q *models.Quotation) string { return q.QuotationNumber },
			func(q *models.Quotation) string { return q.CustomerName }),
		describe("trackings", "Tracking", TagTrackings,
			func(t *models.Tracking) string { return t.ContainerNumber },
			func(t *models.Tracking) string { return joinNonEmpty(" - ", t.Location, t.Status) }),
		describe("warehouses", "Warehouse", TagWarehouses,
			func(w *models.Warehouse) string { return w.Name },
			func(w *models.Warehouse) string { return joinNonEmpty(" - ", w.CustomerName, w.ItemDescription) }),
		describe("invoices_reimbursement", "Reimbursement Invoice", TagReimbursements,
			func(i *models.ReimbursementInvoice) string { return i.InvoiceNumber },
			func(i *models.ReimbursementInvoice) string { return invoiceDescription(&i.InvoiceFields) }),
		describe("invoices_final", "Final Invoice", TagFinalInvoices,
			func(i *models.FinalInvoice) string { return i.InvoiceNumber },
			func(i *models.FinalInvoice) string { return invoiceDescription(&i.InvoiceFields) }),
	}
	for _, d := range ds {
		switch d.Table {
		case "invoices":
			d.Dependents = invoiceDeps
			d.Children = []childTable{{"invoice_items", "invoice_id"}}
		case "invoices_reimbursement":
			d.Dependents = invoiceDeps
			d.Children = []childTable{{"invoice_reimbursement_items", "invoice_id"}}
		case "invoices_final":
			d.Children = []childTable{{"invoice_final_items", "invoice_id"}}
		case "quotations":
			d.Children = []childTable{{"quotation_items", "quotation_id"}}
		case "customers", "vendors", "trucks", "job_orders", "expenses":
			d.Dependents = []string{cache.TagDashboard}
		}
	}
	return ds
}

// RecycleBin lists, restores and purges soft-deleted rows across tables.
type RecycleBin struct {
	db          *gorm.DB
	cache       *cache.Cache
	descriptors []*Descriptor
	byTable     map[string]*Descriptor
}

// NewRecycleBin creates a recycle bin over all soft-deletable tables.
func NewRecycleBin(db *gorm.DB, c *cache.Cache) *RecycleBin {
	rb := &RecycleBin{db: db, cache: c, descriptors: Descriptors(), byTable: map[string]*Descriptor{}}
	for _, d := range rb.descriptors {
		rb.byTable[d.Table] = d
	}
	return rb
}

// Tables returns the known table names.
func (rb *RecycleBin) Tables() []string {
	out := make([]string, len(rb.descriptors))
	for i, d := range rb.descriptors {
		out[i] = d.Table
	}
	return out
}

func (rb *RecycleBin) descriptor(table string) (*Descriptor, error) {
	d, ok := rb.byTable[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return d, nil
}

// List returns every soft-deleted row, newest deletion first. A table that
// fails to load is logged and skipped; such a partial list is not cached.
func (rb *RecycleBin) List(ctx context.Context) ([]BinEntry, error) {
	return cache.LoadPartial(rb.cache, cache.Key{Entity: cache.TagRecycleBin}, func() ([]BinEntry, bool, error) {
		all := make([]BinEntry, 0)
		complete := true
		for _, d := range rb.descriptors {
			entries, err := d.load(ctx, rb.db, d)
			if err != nil {
				log.Printf("[recycle-bin] skip %s: %v", d.Table, err)
				complete = false
				continue
			}
			all = append(all, entries...)
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].DeletedAt.After(all[j].DeletedAt) })
		return all, complete, nil
	})
}

// Restore clears deleted_at. Restoring a live or missing row is a no-op.
func (rb *RecycleBin) Restore(ctx context.Context, id uuid.UUID, table string) error {
	d, err := rb.descriptor(table)
	if err != nil {
		return err
	}
	err = rb.db.WithContext(ctx).Unscoped().Model(d.model()).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}
	rb.cache.Invalidate(append([]string{cache.TagRecycleBin, d.CacheKey}, d.Dependents...)...)
	return nil
}

// PermanentDelete physically removes a soft-deleted row and its line items.
// Live rows are left untouched and reported as not found.
func (rb *RecycleBin) PermanentDelete(ctx context.Context, id uuid.UUID, table string) error {
	d, err := rb.descriptor(table)
	if err != nil {
		return err
	}
	err = rb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Unscoped().Model(d.model()).Where("id = ? AND deleted_at IS NOT NULL", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		for _, c := range d.Children {
			if err := tx.Exec("DELETE FROM "+c.Table+" WHERE "+c.ForeignKey+" = ?", id).Error; err != nil {
				return fmt.Errorf("purge %s: %w", c.Table, err)
			}
		}
		return tx.Unscoped().Where("id = ?", id).Delete(d.model()).Error
	})
	if err != nil {
		return err
	}
	rb.cache.Invalidate(cache.TagRecycleBin)
	return nil
}

// EmptyAll purges items one by one and stops at the first failure. Rows
// purged before the failure stay purged; the count of purged rows is returned
// with the error.
func (rb *RecycleBin) EmptyAll(ctx context.Context, items []BinTarget) (int, error) {
	done := 0
	for _, it := range items {
		if err := rb.PermanentDelete(ctx, it.ID, it.TableName); err != nil {
			return done, fmt.Errorf("purge %s/%s: %w", it.TableName, it.ID, err)
		}
		done++
	}
	return done, nil
}
