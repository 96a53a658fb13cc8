package policy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/auth"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/gate"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDBProfileResolver(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	admins := services.NewUserAdmin(db, nil)
	admin, staff, stranger := uuid.New(), uuid.New(), uuid.New()
	_ = admins.SetupFirstAdmin(ctx, admin, "")
	_, _ = admins.EnsureProfile(ctx, staff, "")
	_ = admins.UpdateMenuAccess(ctx, staff, []string{models.MenuTrucks})

	r := NewDBProfileResolver(db)
	p, err := r.Resolve(ctx, admin)
	if err != nil || p == nil || !p.Approved() || !p.HasPermission(gate.NewPermission(models.MenuRecycleBin, gate.ActionPurge)) {
		t.Fatalf("admin profile = %v %v", p, err)
	}

	p, _ = r.Resolve(ctx, staff)
	if p.Approved() || !p.HasPermission(gate.NewPermission(models.MenuTrucks, gate.ActionCreate)) {
		t.Fatalf("pending staff profile = %+v", p)
	}
	if p.HasPermission(gate.NewPermission(models.MenuInvoices, gate.ActionList)) {
		t.Error("staff must not see invoices")
	}

	if p, err := r.Resolve(ctx, stranger); p != nil || err != nil {
		t.Errorf("stranger = %v %v", p, err)
	}
}

func TestRequireMenu(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	ctx := context.Background()
	admins := services.NewUserAdmin(db, nil)
	ag := NewAuthGate(db, time.Minute)
	admin, staff := uuid.New(), uuid.New()
	_ = admins.SetupFirstAdmin(ctx, admin, "")
	_, _ = admins.EnsureProfile(ctx, staff, "")
	_ = admins.UpdateMenuAccess(ctx, staff, []string{models.MenuTrucks})

	h := auth.Middleware(ag.RequireMenu(models.MenuTrucks, gate.ActionList)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })))
	call := func(uid uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/api/trucks", nil)
		if uid != uuid.Nil {
			tok, _ := auth.IssueToken(uid, "", time.Hour)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(uuid.Nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous = %d", code)
	}
	if code := call(staff); code != http.StatusForbidden {
		t.Errorf("pending staff = %d", code)
	}
	if code := call(admin); code != http.StatusNoContent {
		t.Errorf("admin = %d", code)
	}

	// approval reaches the gate only after the cached profile is dropped
	_ = admins.Approve(ctx, admin, staff)
	if code := call(staff); code != http.StatusForbidden {
		t.Errorf("cached pending profile = %d", code)
	}
	ag.InvalidateUser(staff)
	if code := call(staff); code != http.StatusNoContent {
		t.Errorf("approved staff = %d", code)
	}

	other := auth.Middleware(ag.RequireMenu(models.MenuInvoices, gate.ActionList)(http.NotFoundHandler()))
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	tok, _ := auth.IssueToken(staff, "", time.Hour)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	other.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("section without menu access = %d", rec.Code)
	}
}

func TestRequireApproved(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	ctx := context.Background()
	admins := services.NewUserAdmin(db, nil)
	ag := NewAuthGate(db, time.Minute)
	admin, user := uuid.New(), uuid.New()
	_ = admins.SetupFirstAdmin(ctx, admin, "")
	_, _ = admins.EnsureProfile(ctx, user, "")
	_ = admins.Approve(ctx, admin, user)

	h := auth.Middleware(ag.RequireApproved(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	for uid, want := range map[uuid.UUID]int{user: http.StatusOK, uuid.New(): http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		tok, _ := auth.IssueToken(uid, "", time.Hour)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("user %s: status %d, want %d", uid, rec.Code, want)
		}
	}
}
