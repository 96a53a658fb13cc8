package services

import (
	"context"
	"strconv"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MonthBucket aggregates one calendar month.
type MonthBucket struct {
	Month        int             `json:"month"`
	JobOrders    int             `json:"job_orders"`
	InvoiceTotal decimal.Decimal `json:"invoice_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
}

// Summary holds headline counts of live rows.
type Summary struct {
	Customers    int64 `json:"customers"`
	Vendors      int64 `json:"vendors"`
	Trucks       int64 `json:"trucks"`
	JobOrders    int64 `json:"job_orders"`
	OpenInvoices int64 `json:"open_invoices"`
}

// Dashboard computes chart data. Rows are bucketed in Go so the same code
// runs on PostgreSQL and SQLite.
type Dashboard struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDashboard(db *gorm.DB, c *cache.Cache) *Dashboard {
	return &Dashboard{db: db, cache: c}
}

type dated struct {
	OnDate *datatypes.Date
	Amount decimal.Decimal
}

// Monthly returns 12 buckets for year. Rows without a date are ignored.
func (d *Dashboard) Monthly(ctx context.Context, year int) ([]MonthBucket, error) {
	key := cache.Key{Entity: cache.TagDashboard, Scope: "monthly:" + strconv.Itoa(year)}
	return cache.Load(d.cache, key, func() ([]MonthBucket, error) {
		buckets := make([]MonthBucket, 12)
		for i := range buckets {
			buckets[i] = MonthBucket{Month: i + 1, InvoiceTotal: decimal.Zero, ExpenseTotal: decimal.Zero}
		}

		var jobs []dated
		if err := d.loadDated(ctx, &models.JobOrder{}, "order_date AS on_date, 0 AS amount", "order_date", &jobs); err != nil {
			return nil, err
		}
		for _, r := range jobs {
			if m, ok := monthOf(r.OnDate, year); ok {
				buckets[m].JobOrders++
			}
		}

		var invoices []dated
		if err := d.loadDated(ctx, &models.Invoice{}, "invoice_date AS on_date, total_amount AS amount", "invoice_date", &invoices); err != nil {
			return nil, err
		}
		for _, r := range invoices {
			if m, ok := monthOf(r.OnDate, year); ok {
				buckets[m].InvoiceTotal = buckets[m].InvoiceTotal.Add(r.Amount)
			}
		}

		var expenses []dated
		if err := d.loadDated(ctx, &models.Expense{}, "expense_date AS on_date, amount AS amount", "expense_date", &expenses); err != nil {
			return nil, err
		}
		for _, r := range expenses {
			if m, ok := monthOf(r.OnDate, year); ok {
				buckets[m].ExpenseTotal = buckets[m].ExpenseTotal.Add(r.Amount)
			}
		}
		return buckets, nil
	})
}

func (d *Dashboard) loadDated(ctx context.Context, model any, sel, dateCol string, dst *[]dated) error {
	return d.db.WithContext(ctx).Model(model).Select(sel).Where(dateCol + " IS NOT NULL").Scan(dst).Error
}

func monthOf(d *datatypes.Date, year int) (int, bool) {
	if d == nil {
		return 0, false
	}
	t := time.Time(*d)
	if t.Year() != year {
		return 0, false
	}
	return int(t.Month()) - 1, true
}

// Summary counts live master records and invoices that are not settled.
func (d *Dashboard) Summary(ctx context.Context) (*Summary, error) {
	return cache.Load(d.cache, cache.Key{Entity: cache.TagDashboard, Scope: "summary"}, func() (*Summary, error) {
		s := &Summary{}
		db := d.db.WithContext(ctx)
		counts := []struct {
			model any
			dst   *int64
		}{
			{&models.Customer{}, &s.Customers},
			{&models.Vendor{}, &s.Vendors},
			{&models.Truck{}, &s.Trucks},
			{&models.JobOrder{}, &s.JobOrders},
		}
		for _, c := range counts {
			if err := db.Model(c.model).Count(c.dst).Error; err != nil {
				return nil, err
			}
		}
		err := db.Model(&models.Invoice{}).
			Where("status IN ?", []string{models.InvoiceUnpaid, models.InvoicePartial}).
			Count(&s.OpenInvoices).Error
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
