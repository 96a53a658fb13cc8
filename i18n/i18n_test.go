package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("id-ID,id;q=0.8") != "id" {
		t.Fatalf("expected id")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "id" {
		t.Fatalf("expected id fallback for unsupported language")
	}
	if DetectLanguage("") != "id" {
		t.Fatalf("expected default id")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("id", "required") != "Wajib diisi" {
		t.Fatalf("expected Wajib diisi")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to id translation if exists
	if T("es", "admin_already_exists") != "Admin sudah ada" {
		t.Fatalf("expected id fallback for es lang")
	}
}

func TestLangContext(t *testing.T) {
	ctx := context.Background()
	if LangFromContext(ctx) != DefaultLang {
		t.Fatalf("expected default language on empty context")
	}
	if LangFromContext(WithLang(ctx, LangEN)) != LangEN {
		t.Fatalf("expected en from context")
	}
}
