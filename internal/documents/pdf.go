package documents

import (
	"fmt"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/i18n"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	small     = props.Text{Size: 8}
	bold      = props.Text{Size: 9, Style: fontstyle.Bold}
	right     = props.Text{Size: 8, Align: align.Right}
	rightBold = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	title     = props.Text{Size: 15, Style: fontstyle.Bold, Align: align.Center, Top: 2}
	italic    = props.Text{Size: 8, Style: fontstyle.Italic, Top: 2}
)

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()
	return maroto.New(cfg)
}

func letterhead(m core.Maroto, co Company) {
	m.AddRows(text.NewRow(7, co.Name, props.Text{Size: 12, Style: fontstyle.Bold}))
	if co.Address != "" {
		m.AddRows(text.NewRow(5, co.Address, small))
	}
	if contact := joinNonEmpty(" | ", co.Phone, co.Email); contact != "" {
		m.AddRows(text.NewRow(5, contact, small))
	}
	m.AddRows(line.NewRow(4))
}

func metaRow(m core.Maroto, k1, v1, k2, v2 string) {
	m.AddRow(5,
		text.NewCol(2, k1, small), text.NewCol(5, v1, small),
		text.NewCol(2, k2, small), text.NewCol(3, v2, small),
	)
}

func itemTable(m core.Maroto, items []Line) {
	m.AddRow(7,
		text.NewCol(1, "No", bold), text.NewCol(5, "Keterangan", bold),
		text.NewCol(1, "Qty", rightBold), text.NewCol(1, "Satuan", bold),
		text.NewCol(2, "Harga", rightBold), text.NewCol(2, "Jumlah", rightBold),
	)
	m.AddRows(line.NewRow(1))
	for i, it := range items {
		m.AddRow(6,
			text.NewCol(1, fmt.Sprint(i+1), small), text.NewCol(5, it.Description, small),
			text.NewCol(1, it.Quantity.String(), right), text.NewCol(1, it.Unit, small),
			text.NewCol(2, i18n.FormatRupiah(it.UnitPrice), right), text.NewCol(2, i18n.FormatRupiah(it.Amount), right),
		)
	}
	m.AddRows(line.NewRow(1))
}

func amountRow(m core.Maroto, label string, amount decimal.Decimal, emphasize bool) {
	l, v := right, right
	if emphasize {
		l, v = rightBold, rightBold
	}
	m.AddRow(6, text.NewCol(8, label, l), text.NewCol(4, i18n.FormatRupiah(amount), v))
}

func words(m core.Maroto, amount decimal.Decimal) {
	m.AddRows(text.NewRow(8, "Terbilang: "+i18n.Terbilang(amount.Round(0).IntPart())+" rupiah", italic))
}

// InvoicePDF renders doc as an A4 PDF.
func InvoicePDF(doc *Invoice) ([]byte, error) {
	m := newDocument()
	letterhead(m, doc.Company)
	m.AddRows(text.NewRow(10, doc.Title, title))

	metaRow(m, "No.", doc.Number, "Tanggal", doc.InvoiceDate)
	metaRow(m, "Job Order", doc.JobOrderNumber, "Jatuh Tempo", doc.DueDate)
	metaRow(m, "Kepada", joinNonEmpty(", ", doc.CustomerName, doc.CustomerAddress, doc.CustomerCity), "", "")
	if doc.BLNumber != "" || doc.ContainerNumber != "" || doc.VesselName != "" {
		metaRow(m, "B/L", doc.BLNumber, "Kontainer", doc.ContainerNumber)
		metaRow(m, "Kapal", doc.VesselName, "", "")
	}

	itemTable(m, doc.Items)
	amountRow(m, "Subtotal", doc.Subtotal, false)
	amountRow(m, "Total", doc.Total, true)
	for _, dp := range doc.DownPayments {
		label := dp.Label
		if dp.Date != "" {
			label += " (" + dp.Date + ")"
		}
		amountRow(m, label, dp.Amount.Neg(), false)
	}
	if len(doc.DownPayments) > 0 {
		amountRow(m, "Sisa Tagihan", doc.Remaining, true)
	}
	words(m, doc.AmountDue())
	if doc.Notes != "" {
		m.AddRows(text.NewRow(8, doc.Notes, small))
	}
	return generate(m)
}

// QuotationPDF renders doc as an A4 PDF.
func QuotationPDF(doc *Quotation) ([]byte, error) {
	m := newDocument()
	letterhead(m, doc.Company)
	m.AddRows(text.NewRow(10, "SURAT PENAWARAN HARGA", title))

	metaRow(m, "No.", doc.Number, "Tanggal", doc.Date)
	metaRow(m, "Kepada", doc.CustomerName, "Berlaku s/d", doc.ValidUntil)
	if doc.Attention != "" {
		metaRow(m, "Up.", doc.Attention, "", "")
	}
	if doc.Origin != "" || doc.Destination != "" {
		metaRow(m, "Rute", doc.Origin+" - "+doc.Destination, "", "")
	}

	itemTable(m, doc.Items)
	amountRow(m, "Total", doc.Subtotal, true)
	words(m, doc.Subtotal)
	if doc.Terms != "" {
		m.AddRows(text.NewRow(6, "Syarat dan Ketentuan", bold))
		m.AddRows(text.NewRow(8, doc.Terms, small))
	}
	if doc.Notes != "" {
		m.AddRows(text.NewRow(8, doc.Notes, small))
	}
	return generate(m)
}

func generate(m core.Maroto) ([]byte, error) {
	d, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return d.GetBytes(), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
