// Package services holds the data access and business rules behind the HTTP
// handlers: table accessors, the merged invoice view, the recycle bin, user
// administration, dashboard aggregation and exports.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"gorm.io/gorm"
)

// Cache entities of the table accessors. invoice_dp is cached under
// invoices_dp.
const (
	TagCustomers      = "customers"
	TagVendors        = "vendors"
	TagTrucks         = "trucks"
	TagJobOrders      = "job_orders"
	TagInvoices       = "invoices"
	TagInvoiceDP      = "invoices_dp"
	TagExpenses       = "expenses"
	TagQuotations     = "quotations"
	TagTrackings      = "trackings"
	TagWarehouses     = "warehouses"
	TagReimbursements = "invoices_reimbursement"
	TagFinalInvoices  = "invoices_final"
)

// Registry groups every accessor and service over one database and cache.
type Registry struct {
	Customers      *Accessor[models.Customer, *models.Customer]
	Vendors        *Accessor[models.Vendor, *models.Vendor]
	Trucks         *Accessor[models.Truck, *models.Truck]
	Warehouses     *Accessor[models.Warehouse, *models.Warehouse]
	JobOrders      *Accessor[models.JobOrder, *models.JobOrder]
	Expenses       *Accessor[models.Expense, *models.Expense]
	Trackings      *Accessor[models.Tracking, *models.Tracking]
	Quotations     *Accessor[models.Quotation, *models.Quotation]
	Invoices       *Accessor[models.Invoice, *models.Invoice]
	Reimbursements *Accessor[models.ReimbursementInvoice, *models.ReimbursementInvoice]
	FinalInvoices  *Accessor[models.FinalInvoice, *models.FinalInvoice]
	InvoiceDPs     *Accessor[models.InvoiceDP, *models.InvoiceDP]

	MergedInvoices *MergedInvoices
	RecycleBin     *RecycleBin
	Dashboard      *Dashboard

	now func() time.Time
}

var invoiceSearch = []string{"invoice_number", "customer_name", "job_order_number", "bl_number", "container_number"}

// NewRegistry wires all services.
func NewRegistry(db *gorm.DB, c *cache.Cache) *Registry {
	r := &Registry{now: time.Now}
	dash := []string{cache.TagDashboard}
	invoiceDeps := []string{cache.TagMergedInvoices, cache.TagDashboard}

	r.Customers = NewAccessor(db, c, Options[*models.Customer]{
		Tag: TagCustomers, Dependents: dash, Order: "name ASC",
		SearchColumns: []string{"name", "city", "contact_person", "phone"},
	})
	r.Vendors = NewAccessor(db, c, Options[*models.Vendor]{
		Tag: TagVendors, Dependents: dash, Order: "name ASC",
		SearchColumns: []string{"name", "service_type", "city"},
	})
	r.Trucks = NewAccessor(db, c, Options[*models.Truck]{
		Tag: TagTrucks, Dependents: dash, Order: "plate_number ASC",
		SearchColumns: []string{"plate_number", "driver_name", "truck_type"},
	})
	r.Warehouses = NewAccessor(db, c, Options[*models.Warehouse]{
		Tag:           TagWarehouses,
		SearchColumns: []string{"name", "customer_name", "job_order_number", "item_description"},
	})
	r.JobOrders = NewAccessor(db, c, Options[*models.JobOrder]{
		Tag: TagJobOrders, Dependents: dash,
		SearchColumns: []string{"job_order_number", "customer_name", "bl_number", "container_number", "vessel_name"},
		Prepare: func(_ context.Context, _ *gorm.DB, jo *models.JobOrder) error {
			if strings.TrimSpace(jo.JobOrderNumber) == "" {
				jo.JobOrderNumber = JobOrderNumber(r.now())
			}
			return nil
		},
		Preserve: func(old, jo *models.JobOrder) {
			jo.JobOrderNumber = keepNumber(jo.JobOrderNumber, old.JobOrderNumber)
		},
	})
	r.Expenses = NewAccessor(db, c, Options[*models.Expense]{
		Tag: TagExpenses, Dependents: dash, JobOrderScoped: true,
		SearchColumns: []string{"description", "job_order_number", "vendor_name", "category"},
	})
	r.Trackings = NewAccessor(db, c, Options[*models.Tracking]{
		Tag: TagTrackings, JobOrderScoped: true,
		SearchColumns: []string{"job_order_number", "container_number", "location"},
	})
	r.Quotations = NewAccessor(db, c, Options[*models.Quotation]{
		Tag:           TagQuotations,
		SearchColumns: []string{"quotation_number", "customer_name", "origin", "destination"},
		Prepare: func(ctx context.Context, tx *gorm.DB, q *models.Quotation) error {
			if strings.TrimSpace(q.QuotationNumber) != "" {
				return nil
			}
			n, err := QuotationNumber(ctx, tx, r.now())
			q.QuotationNumber = n
			return err
		},
		Preserve: func(old, q *models.Quotation) {
			q.QuotationNumber = keepNumber(q.QuotationNumber, old.QuotationNumber)
		},
	})
	r.Invoices = NewAccessor(db, c, Options[*models.Invoice]{
		Tag: TagInvoices, Dependents: invoiceDeps, JobOrderScoped: true, SearchColumns: invoiceSearch,
	})
	r.Reimbursements = NewAccessor(db, c, Options[*models.ReimbursementInvoice]{
		Tag: TagReimbursements, Dependents: invoiceDeps, JobOrderScoped: true, SearchColumns: invoiceSearch,
	})
	r.FinalInvoices = NewAccessor(db, c, Options[*models.FinalInvoice]{
		Tag: TagFinalInvoices, Dependents: dash, JobOrderScoped: true, SearchColumns: invoiceSearch,
	})
	r.InvoiceDPs = NewAccessor(db, c, Options[*models.InvoiceDP]{
		Tag:           TagInvoiceDP,
		SearchColumns: []string{"dp_number", "invoice_number", "customer_name", "job_order_number"},
		Prepare: func(_ context.Context, _ *gorm.DB, dp *models.InvoiceDP) error {
			if strings.TrimSpace(dp.DPNumber) == "" {
				dp.DPNumber = InvoiceDPNumber(r.now())
			}
			return nil
		},
		Preserve: func(old, dp *models.InvoiceDP) {
			dp.DPNumber = keepNumber(dp.DPNumber, old.DPNumber)
		},
	})

	r.MergedInvoices = NewMergedInvoices(db, c)
	r.RecycleBin = NewRecycleBin(db, c)
	r.Dashboard = NewDashboard(db, c)
	return r
}

// keepNumber returns the stored number when an update leaves it blank.
func keepNumber(incoming, stored string) string {
	if strings.TrimSpace(incoming) == "" {
		return stored
	}
	return incoming
}
