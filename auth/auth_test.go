package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestIssueAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	uid := uuid.New()
	tok, err := IssueToken(uid, "ops@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := ParseToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.UserID != uid || id.Email != "ops@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestParseTokenRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	uid := uuid.New()

	expired, _ := IssueToken(uid, "", -time.Minute)
	if _, err := ParseToken(expired); err == nil {
		t.Error("expired token accepted")
	}

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uid.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	forged, _ := other.SignedString([]byte("another-secret"))
	if _, err := ParseToken(forged); err == nil {
		t.Error("token signed with another secret accepted")
	}

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	bad, _ := noSubject.SignedString(Secret())
	if _, err := ParseToken(bad); err == nil {
		t.Error("non-uuid subject accepted")
	}

	if _, err := ParseToken("garbage"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(uid.String()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.String() != "anonymous" {
		t.Fatalf("expected no identity without token, got %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.String() != "anonymous" {
		t.Fatalf("expected no identity with invalid token, got %q", rec.Body.String())
	}

	uid := uuid.New()
	tok, _ := IssueToken(uid, "", time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != uid.String() {
		t.Fatalf("expected 200 with user id, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RequireAPIKey("k1")(ok)

	req := httptest.NewRequest(http.MethodPost, "/manage-users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d", rec.Code)
	}

	req.Header.Set(APIKeyHeader, "k1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with api key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/manage-users", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("preflight should bypass api key, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RequireAPIKey("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("empty key should disable the check, got %d", rec.Code)
	}
}
