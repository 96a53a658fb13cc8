package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shockerli/cvt"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DPEntry is one normalized down payment.
type DPEntry struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// DownPayment is the resolved down payment of an invoice row: ItemizedDP,
// LegacyScalarDP or NoDP. Consumers only use Entries and Total.
type DownPayment interface {
	Entries() []DPEntry
	Total() decimal.Decimal
	downPayment()
}

// ItemizedDP comes from a non-empty dp_items array.
type ItemizedDP struct{ Items []DPEntry }

// LegacyScalarDP comes from the down_payment column of older rows.
type LegacyScalarDP struct {
	Amount decimal.Decimal
	Date   string
}

// NoDP means the invoice carries no down payment.
type NoDP struct{}

func (d ItemizedDP) Entries() []DPEntry { return d.Items }
func (d ItemizedDP) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range d.Items {
		sum = sum.Add(e.Amount)
	}
	return sum
}
func (ItemizedDP) downPayment() {}

func (d LegacyScalarDP) Entries() []DPEntry {
	return []DPEntry{{Label: "DP", Amount: d.Amount, Date: d.Date}}
}
func (d LegacyScalarDP) Total() decimal.Decimal { return d.Amount }
func (LegacyScalarDP) downPayment()             {}

func (NoDP) Entries() []DPEntry     { return []DPEntry{} }
func (NoDP) Total() decimal.Decimal { return decimal.Zero }
func (NoDP) downPayment()           {}

// ResolveDownPayment picks the itemized list when dp_items holds at least one
// entry, else the legacy scalar when it is positive, else NoDP. Unparseable
// dp_items are treated as absent.
func ResolveDownPayment(raw datatypes.JSON, scalar decimal.Decimal, date *datatypes.Date) DownPayment {
	if items, err := ParseDPItems(raw); err == nil && len(items) > 0 {
		return ItemizedDP{Items: items}
	}
	if scalar.IsPositive() {
		return LegacyScalarDP{Amount: scalar, Date: FormatDate(date)}
	}
	return NoDP{}
}

// ParseDPItems reads a dp_items JSON array. Amounts may arrive as numbers or
// as strings with thousand separators; labels and dates may be any scalar.
func ParseDPItems(raw datatypes.JSON) ([]DPEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var rows []map[string]any
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("dp_items: %w", err)
	}
	out := make([]DPEntry, 0, len(rows))
	for i, row := range rows {
		amount, err := coerceAmount(row["amount"])
		if err != nil {
			return nil, fmt.Errorf("dp_items[%d].amount: %w", i, err)
		}
		label, _ := cvt.StringE(row["label"])
		if label == "" {
			label = fmt.Sprintf("DP %d", i+1)
		}
		date, _ := cvt.StringE(row["date"])
		out = append(out, DPEntry{Label: label, Amount: amount, Date: date})
	}
	return out, nil
}

func coerceAmount(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, nil
		}
		s = strings.NewReplacer("Rp", "", " ", "").Replace(s)
		if d, err := decimal.NewFromString(s); err == nil {
			return d, nil
		}
		// Indonesian notation: dots group thousands, comma marks decimals.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		return decimal.NewFromString(s)
	default:
		f, err := cvt.Float64E(t)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(f), nil
	}
}

// EncodeDPItems stores entries in the dp_items column shape.
func EncodeDPItems(entries []DPEntry) (datatypes.JSON, error) {
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DateValue returns the time of d, or the zero time when d is nil.
func DateValue(d *datatypes.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return time.Time(*d)
}

// FormatDate renders d as yyyy-mm-dd, or "" when nil.
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format("2006-01-02")
}

// NewDate builds a calendar date in UTC.
func NewDate(year int, month time.Month, day int) *datatypes.Date {
	d := datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	return &d
}
