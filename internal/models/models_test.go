package models

import (
	"testing"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestResolveDownPayment(t *testing.T) {
	date := NewDate(2024, 3, 1)
	tests := []struct {
		name    string
		raw     string
		scalar  string
		want    string
		entries int
		kind    string
	}{
		{"itemized wins over scalar", `[{"label":"DP 1","amount":100000},{"label":"DP 2","amount":"50000"}]`, "999", "150000", 2, "itemized"},
		{"empty array falls back to scalar", `[]`, "200000", "200000", 1, "legacy"},
		{"null falls back to scalar", `null`, "200000", "200000", 1, "legacy"},
		{"missing column falls back to scalar", ``, "200000", "200000", 1, "legacy"},
		{"zero scalar means none", ``, "0", "0", 0, "none"},
		{"broken json treated as absent", `{oops`, "10", "10", 1, "legacy"},
		{"indonesian notation", `[{"amount":"Rp 1.250.000"}]`, "0", "1250000", 1, "itemized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dp := ResolveDownPayment(datatypes.JSON(tt.raw), dec(tt.scalar), date)
			if !dp.Total().Equal(dec(tt.want)) {
				t.Errorf("Total() = %s, want %s", dp.Total(), tt.want)
			}
			if got := len(dp.Entries()); got != tt.entries {
				t.Errorf("len(Entries()) = %d, want %d", got, tt.entries)
			}
			var kind string
			switch dp.(type) {
			case ItemizedDP:
				kind = "itemized"
			case LegacyScalarDP:
				kind = "legacy"
			case NoDP:
				kind = "none"
			}
			if kind != tt.kind {
				t.Errorf("kind = %s, want %s", kind, tt.kind)
			}
		})
	}
}

func TestLegacyDPUsesDownPaymentDateThenInvoiceDate(t *testing.T) {
	f := InvoiceFields{DownPayment: dec("200000"), InvoiceDate: NewDate(2024, 1, 15)}
	if got := f.DownPayments().Entries()[0].Date; got != "2024-01-15" {
		t.Fatalf("date = %q, want invoice date", got)
	}
	f.DownPaymentDate = NewDate(2024, 1, 10)
	if got := f.DownPayments().Entries()[0].Date; got != "2024-01-10" {
		t.Fatalf("date = %q, want dp date", got)
	}
}

func TestParseDPItemsDefaultsLabel(t *testing.T) {
	items, err := ParseDPItems(datatypes.JSON(`[{"amount":1},{"amount":2,"label":"Pelunasan"}]`))
	if err != nil {
		t.Fatalf("ParseDPItems: %v", err)
	}
	if items[0].Label != "DP 1" || items[1].Label != "Pelunasan" {
		t.Fatalf("labels = %q, %q", items[0].Label, items[1].Label)
	}
	if _, err := ParseDPItems(datatypes.JSON(`[{"amount":"abc"}]`)); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestEncodeDPItemsRoundTripsThroughResolver(t *testing.T) {
	raw, err := EncodeDPItems([]DPEntry{{Label: "DP", Amount: dec("1500.50"), Date: "2024-02-01"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dp := ResolveDownPayment(raw, decimal.Zero, nil)
	if !dp.Total().Equal(dec("1500.50")) {
		t.Fatalf("Total() = %s", dp.Total())
	}
}

func TestInvoiceNormalize(t *testing.T) {
	tests := []struct {
		name         string
		inv          Invoice
		wantSubtotal string
		wantTotal    string
	}{
		{
			name: "subtotal from items and total minus dp",
			inv: Invoice{
				InvoiceFields: InvoiceFields{InvoiceNumber: " INV-001 ", DownPayment: dec("200000")},
				Items: []InvoiceItem{
					{LineItem: LineItem{Description: "Trucking", Quantity: dec("2"), UnitPrice: dec("400000")}},
					{LineItem: LineItem{Description: "THC", UnitPrice: dec("200000")}},
				},
			},
			wantSubtotal: "1000000",
			wantTotal:    "800000",
		},
		{
			name: "explicit totals are kept",
			inv: Invoice{
				InvoiceFields: InvoiceFields{InvoiceNumber: "INV-002", Subtotal: dec("500"), TotalAmount: dec("450")},
			},
			wantSubtotal: "500",
			wantTotal:    "450",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.inv.Normalize()
			if !tt.inv.Subtotal.Equal(dec(tt.wantSubtotal)) {
				t.Errorf("Subtotal = %s, want %s", tt.inv.Subtotal, tt.wantSubtotal)
			}
			if !tt.inv.TotalAmount.Equal(dec(tt.wantTotal)) {
				t.Errorf("TotalAmount = %s, want %s", tt.inv.TotalAmount, tt.wantTotal)
			}
			if tt.inv.Status != InvoiceUnpaid {
				t.Errorf("Status = %q, want unpaid", tt.inv.Status)
			}
		})
	}
}

func TestInvoiceValidate(t *testing.T) {
	inv := &Invoice{InvoiceFields: InvoiceFields{
		InvoiceDate: NewDate(2024, 5, 2),
		DueDate:     NewDate(2024, 5, 1),
		DownPayment: dec("-1"),
		DPItems:     datatypes.JSON(`not json`),
		Status:      "weird",
	}}
	v := validation.Violations{}
	inv.Validate(v)
	for _, field := range []string{"invoice_number", "due_date", "down_payment", "dp_items", "status"} {
		if _, ok := v[field]; !ok {
			t.Errorf("expected violation on %s, got %v", field, v)
		}
	}
}

func TestPrepareItemsBindsParent(t *testing.T) {
	q := &Quotation{Items: []QuotationItem{
		{LineItem: LineItem{ID: uuid.New(), Description: "a"}},
		{LineItem: LineItem{ID: uuid.New(), Description: "b"}},
	}}
	q.ID = uuid.New()
	items, ok := q.PrepareItems().(*[]QuotationItem)
	if !ok {
		t.Fatalf("unexpected type %T", q.PrepareItems())
	}
	for i, it := range *items {
		if it.ID != uuid.Nil || it.QuotationID != q.ID || it.Position != i {
			t.Errorf("item %d not rebound: %+v", i, it)
		}
	}
	if (&Quotation{}).PrepareItems() != nil {
		t.Error("expected nil for no items")
	}
}

func TestApprovalTransitions(t *testing.T) {
	tests := []struct {
		from, to ApprovalStatus
		ok       bool
	}{
		{ApprovalPending, ApprovalApproved, true},
		{ApprovalPending, ApprovalRejected, true},
		{ApprovalRejected, ApprovalApproved, true},
		{ApprovalApproved, ApprovalApproved, true},
		{ApprovalRejected, ApprovalRejected, true},
		{ApprovalApproved, ApprovalRejected, false},
		{ApprovalApproved, ApprovalPending, false},
		{ApprovalRejected, ApprovalPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestProfileMenuKeys(t *testing.T) {
	var p Profile
	if keys := p.MenuKeys(); len(keys) != 0 {
		t.Fatalf("expected empty keys, got %v", keys)
	}
	p.SetMenuKeys([]string{MenuInvoices, MenuDashboard})
	keys := p.MenuKeys()
	if len(keys) != 2 || keys[0] != MenuInvoices {
		t.Fatalf("unexpected keys %v", keys)
	}
	p.MenuAccess = datatypes.JSON(`{"bad":true}`)
	if len(p.MenuKeys()) != 0 {
		t.Fatal("expected invalid json to read as empty")
	}
	if !IsMenuKey(MenuRecycleBin) || IsMenuKey("admin") {
		t.Fatal("IsMenuKey mismatch")
	}
}

func TestTruckNormalize(t *testing.T) {
	tr := &Truck{PlateNumber: "  b 1234   xyz "}
	tr.Normalize()
	if tr.PlateNumber != "B 1234 XYZ" {
		t.Errorf("PlateNumber = %q", tr.PlateNumber)
	}
	if tr.Status != TruckAvailable {
		t.Errorf("Status = %q", tr.Status)
	}
}
