package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/studyreuse/backend/internal/application/trade"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const receiptHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Receipt {{.Number}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 20px; margin: 0 0 4px; }
  .muted { color: #777; }
  .parties { display: flex; justify-content: space-between; margin: 16px 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 12px; }
  th, td { padding: 6px 4px; border-bottom: 1px solid #ddd; text-align: left; }
  td.num, th.num { text-align: right; }
  tfoot td { font-weight: bold; border-bottom: none; }
</style>
</head>
<body>
  <h1>StudyReuse order receipt</h1>
  <div class="muted">Order {{.Number}} &middot; placed {{.PlacedAt}} &middot; {{.State}}</div>
  <div class="parties">
    <div>
      <strong>Buyer</strong><br>
      {{.Buyer.Name}}<br>
      <span class="muted">{{.Buyer.Email}}</span>
    </div>
    <div>
      <strong>Ship to</strong><br>
      {{.Address.FullName}}<br>
      {{.Address.Address}}<br>
      {{.Address.City}} {{.Address.PostalCode}}<br>
      {{.Address.Country}}<br>
      {{.Address.Phone}}
    </div>
  </div>
  <table>
    <thead>
      <tr><th>Item</th><th>Seller</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Amount</th></tr>
    </thead>
    <tbody>
    {{- range .Lines}}
      <tr><td>{{.Title}}</td><td>{{.Seller}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Price}}</td><td class="num">{{.Amount}}</td></tr>
    {{- end}}
    </tbody>
    <tfoot>
      <tr><td colspan="4" class="num">Total</td><td class="num">{{.Total}}</td></tr>
    </tfoot>
  </table>
  <p>Payment: {{.Payment}}</p>
  {{- if .Note}}
  <p class="muted">{{.Note}}</p>
  {{- end}}
  <p class="muted">Generated {{.GeneratedAt}}</p>
</body>
</html>`

// receiptView is the flattened, pre-formatted data the template prints
type receiptView struct {
	Number      string
	PlacedAt    string
	State       string
	Buyer       trade.ReceiptParty
	Address     trade.ShippingAddressResponse
	Lines       []receiptLine
	Total       string
	Payment     string
	Note        string
	GeneratedAt string
}

type receiptLine struct {
	Title    string
	Seller   string
	Quantity string
	Price    string
	Amount   string
}

// ReceiptTemplate fills the receipt HTML
type ReceiptTemplate struct {
	tmpl     *template.Template
	currency string
	printer  *message.Printer
	title    cases.Caser
}

// NewReceiptTemplate parses the receipt template. Amounts are prefixed
// with currency.
func NewReceiptTemplate(currency string) (*ReceiptTemplate, error) {
	tmpl, err := template.New("receipt").Parse(receiptHTML)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "parse receipt template", err)
	}
	return &ReceiptTemplate{
		tmpl:     tmpl,
		currency: currency,
		printer:  message.NewPrinter(language.English),
		title:    cases.Title(language.English),
	}, nil
}

// Execute renders the receipt of data as an HTML document
func (t *ReceiptTemplate) Execute(data trade.ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, t.view(data)); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "execute receipt template", err)
	}
	return buf.String(), nil
}

func (t *ReceiptTemplate) view(data trade.ReceiptData) receiptView {
	o := trade.ToOrderResponse(data.Order)
	v := receiptView{
		Number:      o.OrderNumber,
		PlacedAt:    formatDate(o.CreatedAt),
		State:       spaced(o.State),
		Buyer:       data.Buyer,
		Address:     o.ShippingAddress,
		Lines:       make([]receiptLine, len(o.Lines)),
		Total:       t.money(o.TotalAmount),
		Payment:     t.label(o.PaymentMethod),
		GeneratedAt: formatDate(data.GeneratedAt),
	}
	switch {
	case o.RejectionReason != "":
		v.Note = "Rejected by seller: " + o.RejectionReason
	case o.CancelReason != "":
		v.Note = "Cancelled: " + o.CancelReason
	}
	for i, l := range o.Lines {
		seller := data.Sellers[l.SellerID].Name
		if seller == "" {
			seller = "-"
		}
		v.Lines[i] = receiptLine{
			Title:    l.Title,
			Seller:   seller,
			Quantity: t.printer.Sprintf("%d", l.Quantity),
			Price:    t.money(l.Price),
			Amount:   t.money(l.Amount),
		}
	}
	return v
}

// money formats d with thousands separators and two decimals, e.g. ₹1,234.50
func (t *ReceiptTemplate) money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).Round(0).IntPart()
	if cents == 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = 0
	}
	return t.printer.Sprintf("%s%s%d.%02d", sign, t.currency, whole.IntPart(), cents)
}

// label turns an identifier like cash_on_delivery into "Cash On Delivery"
func (t *ReceiptTemplate) label(s string) string {
	return t.title.String(strings.ReplaceAll(s, "_", " "))
}

// spaced splits a CamelCase state name, AwaitingSeller becomes "Awaiting Seller"
func spaced(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("02 Jan 2006 15:04 MST")
}
