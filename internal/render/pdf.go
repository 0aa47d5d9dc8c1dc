// Package render turns finance reports into downloadable documents.
package render

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"backoffice/internal/models"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/unicode/bidi"
)

// ReportRenderer produces a document for a computed report.
type ReportRenderer interface {
	Render(report *models.Report, meta Meta) ([]byte, error)
	ContentType() string
}

type Meta struct {
	Start       *time.Time
	End         *time.Time
	CompanyName string
	Currency    string
	GeneratedAt time.Time
}

type labels struct {
	title, rangePrefix, allDates, from, until, to string
	sales, expenses, profit, invoices            string
	topProducts, product, quantity, generated    string
}

var persian = labels{
	title:       "گزارش مالی",
	rangePrefix: "بازه: ",
	allDates:    "همه تاریخ‌ها",
	from:        "از %s",
	until:       "تا %s",
	to:          "%s تا %s",
	sales:       "درآمد کل",
	expenses:    "هزینه‌ها",
	profit:      "سود خالص",
	invoices:    "تعداد فاکتورها",
	topProducts: "محصولات پرفروش",
	product:     "محصول",
	quantity:    "تعداد",
	generated:   "تاریخ تهیه: ",
}

var english = labels{
	title:       "Financial Report",
	rangePrefix: "Range: ",
	allDates:    "All dates",
	from:        "From %s",
	until:       "Until %s",
	to:          "%s to %s",
	sales:       "Total income",
	expenses:    "Expenses",
	profit:      "Net profit",
	invoices:    "Invoices",
	topProducts: "Top products",
	product:     "Product",
	quantity:    "Quantity",
	generated:   "Generated: ",
}

const utf8Family = "report"

// PDFRenderer lays the report out on A4. With a UTF-8 TTF font the page is
// right-to-left Persian; otherwise English with the built-in Helvetica.
type PDFRenderer struct {
	font     []byte
	compress bool
}

// NewPDFRenderer loads the TTF at fontPath once; an empty path selects the English layout.
func NewPDFRenderer(fontPath string) (*PDFRenderer, error) {
	r := &PDFRenderer{compress: true}
	if fontPath != "" {
		font, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("report font: %w", err)
		}
		r.font = font
	}
	return r, nil
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Render(report *models.Report, meta Meta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	const margin = 15.0
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	text := english
	family := "Helvetica"
	align := "L"
	rtl := r.font != nil
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if rtl {
		// No pdf.RTL(): it reverses digits too. Strings go through visual and
		// the layout is mirrored by hand.
		pdf.AddUTF8FontFromBytes(utf8Family, "", r.font)
		text, family, align = persian, utf8Family, "R"
		tr = visual
	}
	bold := func(size float64) {
		if family == utf8Family {
			pdf.SetFont(family, "", size)
			return
		}
		pdf.SetFont(family, "B", size)
	}

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*margin

	bold(18)
	pdf.SetTextColor(17, 17, 17)
	pdf.CellFormat(contentWidth, 10, tr(text.title), "", 1, align, false, 0, "")
	if meta.CompanyName != "" {
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(contentWidth, 7, tr(meta.CompanyName), "", 1, align, false, 0, "")
	}

	pdf.SetFont(family, "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(contentWidth, 6, tr(text.rangePrefix+dateRange(text, meta.Start, meta.End)), "", 1, align, false, 0, "")
	if !meta.GeneratedAt.IsZero() {
		pdf.CellFormat(contentWidth, 6, tr(text.generated+meta.GeneratedAt.Format("2006-01-02 15:04")), "", 1, align, false, 0, "")
	}
	pdf.Ln(4)

	// Totals cards
	pdf.SetTextColor(17, 17, 17)
	pdf.SetDrawColor(221, 221, 221)
	cardWidth := (contentWidth - 3*4) / 4
	cards := []struct {
		label string
		value string
	}{
		{text.sales, money(report.TotalSales.StringFixed(2), meta.Currency)},
		{text.expenses, money(report.TotalExpenses.StringFixed(2), meta.Currency)},
		{text.profit, money(report.Profit.StringFixed(2), meta.Currency)},
		{text.invoices, fmt.Sprint(report.TotalInvoices)},
	}
	y := pdf.GetY()
	for i, card := range cards {
		slot := i
		if rtl {
			slot = len(cards) - 1 - i
		}
		x := margin + float64(slot)*(cardWidth+4)
		pdf.Rect(x, y, cardWidth, 18, "D")
		pdf.SetXY(x+2, y+2)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(cardWidth-4, 5, tr(card.label), "", 2, align, false, 0, "")
		bold(11)
		pdf.CellFormat(cardWidth-4, 8, tr(card.value), "", 0, align, false, 0, "")
	}
	pdf.SetXY(margin, y+24)

	// Top products table
	bold(13)
	pdf.CellFormat(contentWidth, 8, tr(text.topProducts), "", 1, align, false, 0, "")
	pdf.SetFillColor(247, 247, 247)
	pdf.SetDrawColor(238, 238, 238)
	nameWidth := contentWidth * 0.7
	qtyWidth := contentWidth - nameWidth
	row := func(name, qty string, fill bool) {
		if rtl {
			pdf.CellFormat(qtyWidth, 8, tr(qty), "1", 0, align, fill, 0, "")
			pdf.CellFormat(nameWidth, 8, tr(name), "1", 1, align, fill, 0, "")
			return
		}
		pdf.CellFormat(nameWidth, 8, tr(name), "1", 0, align, fill, 0, "")
		pdf.CellFormat(qtyWidth, 8, tr(qty), "1", 1, align, fill, 0, "")
	}
	pdf.SetFont(family, "", 10)
	row(text.product, text.quantity, true)
	for _, p := range report.TopProducts {
		row(p.Name, fmt.Sprint(p.TotalQty), false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// visual converts a logically ordered string into the left-to-right glyph
// order gofpdf draws, using a right-to-left paragraph direction. Runs of
// Persian text are reversed while digits and Latin words keep their order.
// TODO: apply Arabic-script contextual shaping (github.com/01walid/goarabic)
// so letters join instead of rendering in isolated forms.
func visual(s string) string {
	if s == "" {
		return s
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return s
	}
	order, err := p.Order()
	if err != nil {
		return s
	}
	var out []rune
	for i := order.NumRuns() - 1; i >= 0; i-- {
		run := order.Run(i)
		if run.Direction() == bidi.RightToLeft {
			out = append(out, []rune(bidi.ReverseString(run.String()))...)
			continue
		}
		out = append(out, []rune(run.String())...)
	}
	return string(out)
}

func dateRange(text labels, start, end *time.Time) string {
	const layout = "2006-01-02"
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf(text.to, start.Format(layout), end.Format(layout))
	case start != nil:
		return fmt.Sprintf(text.from, start.Format(layout))
	case end != nil:
		return fmt.Sprintf(text.until, end.Format(layout))
	default:
		return text.allDates
	}
}

func money(amount, currency string) string {
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}
