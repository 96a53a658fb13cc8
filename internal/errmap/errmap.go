// Package errmap turns backend errors into fixed user-facing messages so that
// constraint names, SQL and driver details never reach the client.
package errmap

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies an error.
type Kind int

const (
	Unknown Kind = iota
	Unique
	ForeignKey
	NotNull
	AccessPolicy
	MissingRelation
	NotFound
	Network
)

// PostgreSQL SQLSTATE codes recognized by Classify.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeInsufficientPrivs   = "42501"
	CodeUndefinedTable      = "42P01"
)

var messageCodes = map[Kind]string{
	Unknown:         "err_generic",
	Unique:          "err_unique",
	ForeignKey:      "err_foreign_key",
	NotNull:         "err_not_null",
	AccessPolicy:    "err_access_policy",
	MissingRelation: "err_missing_relation",
	NotFound:        "err_not_found",
	Network:         "err_network",
}

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case ForeignKey:
		return "foreign_key"
	case NotNull:
		return "not_null"
	case AccessPolicy:
		return "access_policy"
	case MissingRelation:
		return "missing_relation"
	case NotFound:
		return "not_found"
	case Network:
		return "network"
	}
	return "unknown"
}

// Classify inspects the error chain.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUniqueViolation:
			return Unique
		case CodeForeignKeyViolation:
			return ForeignKey
		case CodeNotNullViolation:
			return NotNull
		case CodeInsufficientPrivs:
			return AccessPolicy
		case CodeUndefinedTable:
			return MissingRelation
		}
		return Unknown
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Unique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ForeignKey
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound
	case errors.Is(err, context.DeadlineExceeded):
		return Network
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return Network
	}
	return Unknown
}

// Message returns the Indonesian message for err.
func Message(err error) string { return MessageFor(i18n.DefaultLang, err) }

// MessageFor returns the message for err in lang.
func MessageFor(lang string, err error) string {
	return i18n.T(lang, messageCodes[Classify(err)])
}

// Status maps the error class to an HTTP status code.
func Status(err error) int {
	switch Classify(err) {
	case Unique, ForeignKey:
		return http.StatusConflict
	case NotNull:
		return http.StatusBadRequest
	case AccessPolicy:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Network:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
