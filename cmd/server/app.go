package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/auth"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/gate"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/httpx"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/config"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/documents"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/handlers"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/policy"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/services"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/storage"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux   *http.ServeMux
	db    *gorm.DB
	cfg   *config.Config
	reg   *services.Registry
	gate  *policy.AuthGate
	files *storage.Attachments
}

// NewApp wires services and routes over db.
func NewApp(db *gorm.DB, cfg *config.Config) (*App, error) {
	store, err := storage.NewFS(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open file storage: %w", err)
	}
	app := &App{
		mux:   http.NewServeMux(),
		db:    db,
		cfg:   cfg,
		reg:   services.NewRegistry(db, cache.New(cfg.Cache.TTL)),
		gate:  policy.NewAuthGate(db, cfg.Cache.ProfileTTL),
		files: storage.NewAttachments(store, storage.NewSigner(auth.Secret()), cfg.Storage.MaxBytes),
	}
	app.setupRoutes()
	return app, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := withRecover(auth.Middleware(withLanguage(a.mux)))
	handler.ServeHTTP(w, r)
}

func (a *App) company() documents.Company {
	c := a.cfg.App
	return documents.Company{Name: c.CompanyName, Address: c.CompanyAddress, Phone: c.CompanyPhone, Email: c.CompanyEmail}
}

// menu guards h with section:action of the caller's menu access.
func (a *App) menu(section string, action gate.Action, h http.HandlerFunc) http.Handler {
	return a.gate.RequireMenu(section, action)(h)
}

// resource registers list/get/create/update/delete of one table under
// /api/{path}.
func resource[T any, PT interface {
	*T
	models.Record
}](a *App, path, section string, acc *services.Accessor[T, PT]) {
	h := handlers.NewResourceHandler(acc)
	base := "/api/" + path
	a.mux.Handle("GET "+base, a.menu(section, gate.ActionList, h.List))
	a.mux.Handle("POST "+base, a.menu(section, gate.ActionCreate, h.Create))
	a.mux.Handle("GET "+base+"/{id}", a.menu(section, gate.ActionView, h.Get))
	a.mux.Handle("PUT "+base+"/{id}", a.menu(section, gate.ActionUpdate, h.Update))
	a.mux.Handle("DELETE "+base+"/{id}", a.menu(section, gate.ActionDelete, h.Delete))
}

func (a *App) setupRoutes() {
	reg := a.reg

	// Public
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Tables
	resource(a, "customers", models.MenuCustomers, reg.Customers)
	resource(a, "vendors", models.MenuVendors, reg.Vendors)
	resource(a, "trucks", models.MenuTrucks, reg.Trucks)
	resource(a, "warehouses", models.MenuWarehouse, reg.Warehouses)
	resource(a, "job-orders", models.MenuJobOrders, reg.JobOrders)
	resource(a, "expenses", models.MenuExpenses, reg.Expenses)
	resource(a, "trackings", models.MenuTracking, reg.Trackings)
	resource(a, "quotations", models.MenuQuotations, reg.Quotations)
	resource(a, "invoices", models.MenuInvoices, reg.Invoices)
	resource(a, "invoices-reimbursement", models.MenuReimbursement, reg.Reimbursements)
	resource(a, "invoices-final", models.MenuFinalInvoices, reg.FinalInvoices)
	resource(a, "invoice-dp", models.MenuInvoiceDP, reg.InvoiceDPs)

	// Merged invoice view
	mh := handlers.NewMergedInvoiceHandler(reg.MergedInvoices)
	a.mux.Handle("GET /api/merged-invoices", a.menu(models.MenuInvoices, gate.ActionList, mh.List))
	a.mux.Handle("GET /api/merged-invoices/{number}", a.menu(models.MenuInvoices, gate.ActionView, mh.Get))
	a.mux.Handle("GET /api/merged-invoices/{number}/items", a.menu(models.MenuInvoices, gate.ActionView, mh.Items))
	a.mux.Handle("GET /api/reports/merged-invoices.xlsx", a.menu(models.MenuReports, gate.ActionExport, mh.ExportXLSX))

	// Printable documents
	dh := handlers.NewDocumentHandler(reg, a.company())
	for _, f := range []string{handlers.FormatPDF, handlers.FormatHTML} {
		a.mux.Handle("GET /api/invoices/{id}/"+f, a.menu(models.MenuInvoices, gate.ActionView, dh.Invoice(f)))
		a.mux.Handle("GET /api/invoices-reimbursement/{id}/"+f, a.menu(models.MenuReimbursement, gate.ActionView, dh.Reimbursement(f)))
		a.mux.Handle("GET /api/invoices-final/{id}/"+f, a.menu(models.MenuFinalInvoices, gate.ActionView, dh.Final(f)))
		a.mux.Handle("GET /api/merged-invoices/{number}/"+f, a.menu(models.MenuInvoices, gate.ActionView, dh.Merged(f)))
		a.mux.Handle("GET /api/quotations/{id}/"+f, a.menu(models.MenuQuotations, gate.ActionView, dh.Quotation(f)))
	}

	// Dashboard
	dash := handlers.NewDashboardHandler(reg.Dashboard)
	a.mux.Handle("GET /api/dashboard/monthly", a.menu(models.MenuDashboard, gate.ActionView, dash.Monthly))
	a.mux.Handle("GET /api/dashboard/summary", a.menu(models.MenuDashboard, gate.ActionView, dash.Summary))

	// Recycle bin
	bin := handlers.NewRecycleBinHandler(reg.RecycleBin)
	a.mux.Handle("GET /api/recycle-bin", a.menu(models.MenuRecycleBin, gate.ActionList, bin.List))
	a.mux.Handle("GET /api/recycle-bin/tables", a.menu(models.MenuRecycleBin, gate.ActionList, bin.Tables))
	a.mux.Handle("POST /api/recycle-bin/restore", a.menu(models.MenuRecycleBin, gate.ActionRestore, bin.Restore))
	a.mux.Handle("POST /api/recycle-bin/purge", a.menu(models.MenuRecycleBin, gate.ActionPurge, bin.Purge))
	a.mux.Handle("POST /api/recycle-bin/empty", a.menu(models.MenuRecycleBin, gate.ActionPurge, bin.Empty))

	// Numbering
	nh := handlers.NewNumberHandler(a.db)
	a.mux.Handle("GET /api/numbers/{kind}", a.gate.RequireApproved(http.HandlerFunc(nh.Next)))

	// Job order attachments
	fh := handlers.NewFileHandler(a.files, reg.JobOrders, a.cfg.Storage.MaxBytes, a.cfg.Storage.SignedURLTTL)
	a.mux.Handle("GET /api/files/categories", a.gate.RequireApproved(http.HandlerFunc(fh.Categories)))
	a.mux.Handle("GET /api/job-orders/{id}/files", a.menu(models.MenuJobOrders, gate.ActionList, fh.List))
	a.mux.Handle("POST /api/job-orders/{id}/files", a.menu(models.MenuJobOrders, gate.ActionUpdate, fh.Upload))
	a.mux.Handle("GET /api/files/download", a.menu(models.MenuJobOrders, gate.ActionView, fh.Download))
	a.mux.Handle("GET /api/files/thumbnail", a.menu(models.MenuJobOrders, gate.ActionView, fh.Thumbnail))
	a.mux.Handle("GET /api/files/url", a.menu(models.MenuJobOrders, gate.ActionView, fh.SignURL))
	a.mux.Handle("DELETE /api/files", a.menu(models.MenuJobOrders, gate.ActionDelete, fh.Delete))
	a.mux.HandleFunc("GET "+handlers.SignedDownloadPath, fh.Signed)

	// User administration edge endpoint
	admins := services.NewUserAdmin(a.db, a.gate.InvalidateUser)
	a.mux.Handle("/manage-users", httpx.CORS(auth.RequireAPIKey(a.cfg.Auth.APIKey)(handlers.NewManageUsersHandler(admins))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// withLanguage picks the message language from ?lang or Accept-Language.
func withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if q := strings.TrimSpace(r.URL.Query().Get("lang")); q != "" {
			lang = i18n.DetectLanguage(q)
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

// withRecover turns a handler panic into a 500 JSON response.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("panic %s %s: %v", r.Method, r.URL.Path, rec)
				lang := i18n.LangFromContext(r.Context())
				httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang, "err_generic"), nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
