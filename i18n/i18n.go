// Package i18n holds the user-facing message catalogue. Indonesian is the
// default language; English is kept for API clients that ask for it.
package i18n

import (
	"context"
	"strings"
)

const (
	LangID      = "id"
	LangEN      = "en"
	DefaultLang = LangID
)

var catalogue = map[string]map[string]string{
	LangID: {
		"required":             "Wajib diisi",
		"must_be_positive":     "Harus lebih dari nol",
		"must_not_be_negative": "Tidak boleh negatif",
		"out_of_range":         "Di luar rentang yang diizinkan",
		"invalid_format":       "Format tidak valid",
		"invalid_date":         "Tanggal tidak valid",
		"too_long":             "Terlalu panjang",
		"unknown_value":        "Nilai tidak dikenal",

		"err_unique":           "Data sudah ada. Silakan gunakan nilai yang berbeda.",
		"err_foreign_key":      "Data tidak dapat diproses karena masih terhubung dengan data lain.",
		"err_not_null":         "Ada kolom wajib yang belum diisi.",
		"err_access_policy":    "Anda tidak memiliki akses untuk melakukan tindakan ini.",
		"err_missing_relation": "Tabel data tidak ditemukan. Hubungi administrator.",
		"err_not_found":        "Data tidak ditemukan.",
		"err_network":          "Gagal terhubung ke server. Periksa koneksi internet Anda.",
		"err_generic":          "Terjadi kesalahan. Silakan coba lagi.",

		"unauthorized":            "Sesi tidak valid. Silakan login kembali.",
		"forbidden":               "Akses ditolak. Hanya admin yang dapat melakukan tindakan ini.",
		"not_approved":            "Akun Anda belum disetujui oleh admin.",
		"admin_already_exists":    "Admin sudah ada",
		"invalid_action":          "Aksi tidak valid",
		"invalid_request":         "Permintaan tidak valid",
		"invalid_transition":      "Perubahan status persetujuan tidak diizinkan",
		"cannot_remove_own_admin": "Tidak dapat menghapus peran admin milik sendiri",
		"cannot_reject_admin":     "Admin tidak dapat ditolak",
		"unknown_table":           "Tabel tidak dikenal",
		"method_not_allowed":      "Metode tidak diizinkan",
		"invalid_category":        "Kategori file tidak valid",
		"file_missing":            "File belum dipilih",
		"file_too_large":          "Ukuran file terlalu besar",
		"invalid_signature":       "Tautan file tidak valid atau sudah kedaluwarsa",
		"not_an_image":            "File bukan gambar",
		"empty_bin_failed":        "Gagal mengosongkan recycle bin",
	},
	LangEN: {
		"required":             "Required",
		"must_be_positive":     "Must be greater than zero",
		"must_not_be_negative": "Must not be negative",
		"out_of_range":         "Out of range",
		"invalid_format":       "Invalid format",
		"invalid_date":         "Invalid date",
		"too_long":             "Too long",
		"unknown_value":        "Unknown value",

		"err_unique":           "This record already exists. Please use a different value.",
		"err_foreign_key":      "The record is still referenced by other data.",
		"err_not_null":         "A required field is missing.",
		"err_access_policy":    "You are not allowed to perform this action.",
		"err_missing_relation": "Data table not found. Contact the administrator.",
		"err_not_found":        "Record not found.",
		"err_network":          "Could not reach the server. Check your connection.",
		"err_generic":          "Something went wrong. Please try again.",

		"unauthorized":            "Invalid session. Please sign in again.",
		"forbidden":               "Forbidden. Only admins can perform this action.",
		"not_approved":            "Your account has not been approved yet.",
		"admin_already_exists":    "Admin already exists",
		"invalid_action":          "Invalid action",
		"invalid_request":         "Invalid request",
		"invalid_transition":      "Approval status change not allowed",
		"cannot_remove_own_admin": "You cannot remove your own admin role",
		"cannot_reject_admin":     "Admins cannot be rejected",
		"unknown_table":           "Unknown table",
		"method_not_allowed":      "Method not allowed",
		"invalid_category":        "Invalid file category",
		"file_missing":            "No file selected",
		"file_too_large":          "File too large",
		"invalid_signature":       "File link is invalid or expired",
		"not_an_image":            "File is not an image",
		"empty_bin_failed":        "Failed to empty the recycle bin",
	},
}

// T translates code into lang. Unknown languages fall back to Indonesian and
// unknown codes are returned as-is.
func T(lang, code string) string {
	if m, ok := catalogue[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalogue[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := catalogue[base]; ok {
			return base
		}
	}
	return DefaultLang
}

type langKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language or the default.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
