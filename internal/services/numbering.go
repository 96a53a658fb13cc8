package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"gorm.io/gorm"
)

// Document number prefixes.
const (
	PrefixJobOrder  = "JO"
	PrefixInvoiceDP = "DP"
	PrefixQuotation = "Q"
)

// randomSuffix returns a 4-digit number in [1000, 9999].
func randomSuffix() int { return 1000 + rand.IntN(9000) }

// JobOrderNumber formats JO{yyyy}{MM}-{4 random digits}. Uniqueness is not
// guaranteed.
func JobOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s%s-%04d", PrefixJobOrder, now.Format("200601"), randomSuffix())
}

// InvoiceDPNumber formats DP{yyyy}{MM}-{4 random digits}.
func InvoiceDPNumber(now time.Time) string {
	return fmt.Sprintf("%s%s-%04d", PrefixInvoiceDP, now.Format("200601"), randomSuffix())
}

// QuotationNumber formats Q{yyyy}{MM}-{n} where n is the number of quotation
// rows ever stored (soft-deleted included) plus one, zero padded to 4 digits.
// Concurrent creates or purges can yield duplicates.
func QuotationNumber(ctx context.Context, db *gorm.DB, now time.Time) (string, error) {
	var count int64
	if err := db.WithContext(ctx).Unscoped().Model(&models.Quotation{}).Count(&count).Error; err != nil {
		return "", fmt.Errorf("count quotations: %w", err)
	}
	return fmt.Sprintf("%s%s-%04d", PrefixQuotation, now.Format("200601"), count+1), nil
}
