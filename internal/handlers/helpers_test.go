package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/auth"
	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/cache"
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

func setupRegistry(t *testing.T) (*services.Registry, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return services.NewRegistry(db, cache.New(time.Minute)), db
}

// do sends req through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func bearer(t *testing.T, uid uuid.UUID, email string) string {
	t.Helper()
	tok, err := auth.IssueToken(uid, email, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok
}
