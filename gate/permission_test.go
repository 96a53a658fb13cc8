package gate_test

import (
	"testing"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("invoices", gate.ActionCreate)
	if perm != "invoices:create" {
		t.Errorf("expected 'invoices:create', got '%s'", perm)
	}
	if gate.SectionPermission("trucks") != "trucks:*" {
		t.Errorf("unexpected section permission %s", gate.SectionPermission("trucks"))
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("job-orders:view").Parse()
	if res != "job-orders" || act != gate.ActionView {
		t.Errorf("got '%s' and '%s'", res, act)
	}
	res, act = gate.Permission("invalid").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		held, requested gate.Permission
		want            bool
	}{
		{"invoices:create", "invoices:create", true},
		{"invoices:create", "invoices:delete", false},
		{"invoices:create", "vendors:create", false},
		{gate.PermissionSuperAdmin, "recycle-bin:purge", true},
		{"invoices:*", "invoices:delete", true},
		{"invoices:*", "invoice-dp:delete", false},
		{"invalid", "invalid", true},
		{"broken", "other", false},
	}
	for _, tt := range tests {
		if got := tt.held.Matches(tt.requested); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.held, tt.requested, got, tt.want)
		}
	}
}
