package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestAccessorCreateListGet(t *testing.T) {
	reg, _, c := setupRegistry(t)
	ctx := context.Background()

	cust := &models.Customer{Name: "PT Sinar Samudra", City: "Jakarta"}
	if err := reg.Customers.Create(ctx, cust); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cust.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}

	list, err := reg.Customers.List(ctx, ListParams{})
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
	if c.Len() == 0 {
		t.Fatal("list should be cached")
	}

	got, err := reg.Customers.Get(ctx, cust.ID)
	if err != nil || got.Name != "PT Sinar Samudra" {
		t.Fatalf("get: %v %+v", err, got)
	}

	if _, err := reg.Customers.Get(ctx, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccessorValidation(t *testing.T) {
	reg, _, _ := setupRegistry(t)
	err := reg.Customers.Create(context.Background(), &models.Customer{Email: "not-an-email"})
	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Violations["name"] != "required" || ve.Violations["email"] == "" {
		t.Fatalf("unexpected violations %v", ve.Violations)
	}
}

func TestAccessorSearchAndJobOrderScope(t *testing.T) {
	reg, _, _ := setupRegistry(t)
	ctx := context.Background()
	jo := uuid.New()
	expenses := []*models.Expense{
		{JobOrderID: &jo, Category: "trucking", Description: "Trucking Priok - Cikarang", Amount: dec("1500000")},
		{JobOrderID: &jo, Category: "thc", Description: "THC 40ft", Amount: dec("2500000")},
		{Category: "fuel", Description: "Solar armada", Amount: dec("800000")},
	}
	for _, e := range expenses {
		if err := reg.Expenses.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	scoped, err := reg.Expenses.List(ctx, ListParams{JobOrderID: &jo})
	if err != nil || len(scoped) != 2 {
		t.Fatalf("scoped list: %v %d", err, len(scoped))
	}
	found, err := reg.Expenses.List(ctx, ListParams{Query: "TRUCKING"})
	if err != nil || len(found) != 1 || found[0].Category != "trucking" {
		t.Fatalf("search: %v %+v", err, found)
	}
	page, err := reg.Expenses.List(ctx, ListParams{Limit: 2})
	if err != nil || len(page) != 2 {
		t.Fatalf("limit: %v %d", err, len(page))
	}
}

func TestAccessorItemizedUpdateReplacesItems(t *testing.T) {
	reg, db, _ := setupRegistry(t)
	ctx := context.Background()

	inv := &models.Invoice{
		InvoiceFields: models.InvoiceFields{InvoiceNumber: " INV-010 ", CustomerName: "CV Berkah"},
		Items: []models.InvoiceItem{
			{LineItem: models.LineItem{Description: "Trucking", Quantity: dec("2"), UnitPrice: dec("500000")}},
			{LineItem: models.LineItem{Description: "Lift on/off", UnitPrice: dec("250000")}},
		},
	}
	if err := reg.Invoices.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.InvoiceNumber != "INV-010" {
		t.Errorf("number not trimmed: %q", inv.InvoiceNumber)
	}
	if !inv.Subtotal.Equal(dec("1250000")) || !inv.TotalAmount.Equal(dec("1250000")) {
		t.Errorf("totals = %s / %s", inv.Subtotal, inv.TotalAmount)
	}
	created, _ := reg.Invoices.Get(ctx, inv.ID)

	update := &models.Invoice{
		InvoiceFields: models.InvoiceFields{InvoiceNumber: "INV-010", CustomerName: "CV Berkah Jaya", DownPayment: dec("100000")},
		Items: []models.InvoiceItem{
			{LineItem: models.LineItem{Description: "Trucking", Quantity: dec("1"), UnitPrice: dec("700000")}},
		},
	}
	if err := reg.Invoices.Update(ctx, inv.ID, update); err != nil {
		t.Fatalf("update: %v", err)
	}

	var n int64
	db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&n)
	if n != 1 {
		t.Fatalf("expected items to be replaced, got %d rows", n)
	}
	got, err := reg.Invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CustomerName != "CV Berkah Jaya" || len(got.Items) != 1 || got.Items[0].Description != "Trucking" {
		t.Fatalf("unexpected invoice after update %+v", got)
	}
	if !got.TotalAmount.Equal(dec("600000")) {
		t.Errorf("total = %s, want 600000", got.TotalAmount)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", created.CreatedAt, got.CreatedAt)
	}

	if err := reg.Invoices.Update(ctx, uuid.New(), update); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccessorDeleteIsSoft(t *testing.T) {
	reg, db, _ := setupRegistry(t)
	ctx := context.Background()
	tr := &models.Truck{PlateNumber: "b  9123 kx"}
	if err := reg.Trucks.Create(ctx, tr); err != nil {
		t.Fatal(err)
	}
	if tr.PlateNumber != "B 9123 KX" || tr.Status != models.TruckAvailable {
		t.Fatalf("not normalized: %+v", tr)
	}
	if err := reg.Trucks.Delete(ctx, tr.ID); err != nil {
		t.Fatal(err)
	}
	if err := reg.Trucks.Delete(ctx, tr.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
	var n int64
	db.Unscoped().Model(&models.Truck{}).Where("id = ?", tr.ID).Count(&n)
	if n != 1 {
		t.Fatal("row should still exist physically")
	}
}

func TestCreateAssignsNumbers(t *testing.T) {
	reg, db, _ := setupRegistry(t)
	reg.now = func() time.Time { return time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	jo := &models.JobOrder{CustomerName: "PT Sinar Samudra"}
	if err := reg.JobOrders.Create(ctx, jo); err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^JO202503-\d{4}$`).MatchString(jo.JobOrderNumber) {
		t.Errorf("job order number %q", jo.JobOrderNumber)
	}

	dp := &models.InvoiceDP{Amount: dec("500000")}
	if err := reg.InvoiceDPs.Create(ctx, dp); err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^DP202503-\d{4}$`).MatchString(dp.DPNumber) {
		t.Errorf("dp number %q", dp.DPNumber)
	}

	q1 := &models.Quotation{CustomerName: "A"}
	if err := reg.Quotations.Create(ctx, q1); err != nil {
		t.Fatal(err)
	}
	if q1.QuotationNumber != "Q202503-0001" {
		t.Errorf("first quotation %q", q1.QuotationNumber)
	}
	// soft-deleted rows still count
	if err := reg.Quotations.Delete(ctx, q1.ID); err != nil {
		t.Fatal(err)
	}
	n, err := QuotationNumber(ctx, db, reg.now())
	if err != nil || n != "Q202503-0002" {
		t.Errorf("next quotation %q %v", n, err)
	}

	keep := &models.JobOrder{JobOrderNumber: "JO-MANUAL", CustomerName: "B"}
	if err := reg.JobOrders.Create(ctx, keep); err != nil || keep.JobOrderNumber != "JO-MANUAL" {
		t.Errorf("explicit number overwritten: %q %v", keep.JobOrderNumber, err)
	}
}

func TestJobOrderNumberRange(t *testing.T) {
	now := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^JO202412-[1-9]\d{3}$`)
	for i := 0; i < 200; i++ {
		if n := JobOrderNumber(now); !re.MatchString(n) {
			t.Fatalf("bad number %q", n)
		}
	}
}

func TestMutationInvalidatesDependents(t *testing.T) {
	reg, _, c := setupRegistry(t)
	c.Set(cache.Key{Entity: cache.TagMergedInvoices}, "stale")
	c.Set(cache.Key{Entity: cache.TagDashboard, Scope: "summary"}, "stale")
	c.Set(cache.Key{Entity: TagCustomers}, "kept")

	inv := &models.ReimbursementInvoice{InvoiceFields: models.InvoiceFields{InvoiceNumber: "R-1"}}
	if err := reg.Reimbursements.Create(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(cache.Key{Entity: cache.TagMergedInvoices}); ok {
		t.Error("merged invoices should be invalidated")
	}
	if _, ok := c.Get(cache.Key{Entity: cache.TagDashboard, Scope: "summary"}); ok {
		t.Error("dashboard should be invalidated")
	}
	if _, ok := c.Get(cache.Key{Entity: TagCustomers}); !ok {
		t.Error("unrelated entity should stay cached")
	}
}

func TestUpdateKeepsGeneratedNumbers(t *testing.T) {
	reg, _, _ := setupRegistry(t)
	ctx := context.Background()

	jo := &models.JobOrder{CustomerName: "PT Sinar Samudra"}
	if err := reg.JobOrders.Create(ctx, jo); err != nil {
		t.Fatal(err)
	}
	if err := reg.JobOrders.Update(ctx, jo.ID, &models.JobOrder{CustomerName: "PT Sinar Samudra Baru"}); err != nil {
		t.Fatal(err)
	}
	got, err := reg.JobOrders.Get(ctx, jo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.JobOrderNumber != jo.JobOrderNumber || got.CustomerName != "PT Sinar Samudra Baru" {
		t.Errorf("after update: number %q customer %q, want number %q", got.JobOrderNumber, got.CustomerName, jo.JobOrderNumber)
	}

	q := &models.Quotation{CustomerName: "A"}
	if err := reg.Quotations.Create(ctx, q); err != nil {
		t.Fatal(err)
	}
	if err := reg.Quotations.Update(ctx, q.ID, &models.Quotation{CustomerName: "A", QuotationNumber: "  "}); err != nil {
		t.Fatal(err)
	}
	if gq, _ := reg.Quotations.Get(ctx, q.ID); gq.QuotationNumber != q.QuotationNumber {
		t.Errorf("quotation number %q, want %q", gq.QuotationNumber, q.QuotationNumber)
	}

	dp := &models.InvoiceDP{Amount: dec("250000")}
	if err := reg.InvoiceDPs.Create(ctx, dp); err != nil {
		t.Fatal(err)
	}
	if err := reg.InvoiceDPs.Update(ctx, dp.ID, &models.InvoiceDP{Amount: dec("300000")}); err != nil {
		t.Fatal(err)
	}
	if gdp, _ := reg.InvoiceDPs.Get(ctx, dp.ID); gdp.DPNumber != dp.DPNumber {
		t.Errorf("dp number %q, want %q", gdp.DPNumber, dp.DPNumber)
	}

	// An explicit number still replaces the stored one.
	if err := reg.JobOrders.Update(ctx, jo.ID, &models.JobOrder{JobOrderNumber: "JO-EDITED", CustomerName: "X"}); err != nil {
		t.Fatal(err)
	}
	if got, _ := reg.JobOrders.Get(ctx, jo.ID); got.JobOrderNumber != "JO-EDITED" {
		t.Errorf("explicit number ignored: %q", got.JobOrderNumber)
	}
}

func TestListNotCachedAcrossConcurrentWrite(t *testing.T) {
	reg, db, _ := setupRegistry(t)
	ctx := context.Background()

	fired := false
	err := db.Callback().Query().After("gorm:query").Register("test:write_during_list", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "vendors" {
			return
		}
		fired = true
		if err := reg.Vendors.Create(ctx, &models.Vendor{Name: "Depo Marunda"}); err != nil {
			t.Errorf("create during list: %v", err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	first, err := reg.Vendors.List(ctx, ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 0 {
		t.Fatalf("the first read ran before the write, got %d rows", len(first))
	}
	second, err := reg.Vendors.List(ctx, ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 {
		t.Fatalf("stale list served after the write committed: got %d vendors", len(second))
	}
}
