package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InvoiceLine is one billed line on the invoice
type InvoiceLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// InvoiceData holds everything the invoice template needs
type InvoiceData struct {
	ClinicName         string
	ClinicAddress      string
	ClinicPhone        string
	InvoiceNumber      string
	RegistrationNumber string
	PatientName        string
	PaidAt             time.Time
	OutpatientFee      decimal.Decimal
	DrugLines          []InvoiceLine
	ActionLines        []InvoiceLine
	Total              decimal.Decimal
}

var titleCaser = cases.Title(language.English)

var invoiceFuncs = template.FuncMap{
	"title": func(s string) string {
		return titleCaser.String(s)
	},
	"money": func(d decimal.Decimal) string {
		return "Rp " + d.StringFixed(2)
	},
	"date": func(t time.Time) string {
		return t.Format("02 Jan 2006 15:04")
	},
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(invoiceFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 16px; margin: 0; }
  .clinic { margin-bottom: 12px; border-bottom: 1px solid #222; padding-bottom: 8px; }
  .meta { margin-bottom: 12px; }
  .meta td { padding-right: 16px; }
  table.lines { width: 100%; border-collapse: collapse; margin-bottom: 8px; }
  table.lines th, table.lines td { border-bottom: 1px solid #ccc; text-align: left; padding: 4px 2px; }
  table.lines td.num, table.lines th.num { text-align: right; }
  .total { text-align: right; font-weight: bold; font-size: 14px; }
</style>
</head>
<body>
  <div class="clinic">
    <h1>{{title .ClinicName}}</h1>
    <div>{{.ClinicAddress}}</div>
    <div>{{.ClinicPhone}}</div>
  </div>
  <table class="meta">
    <tr><td>Invoice</td><td>{{.InvoiceNumber}}</td></tr>
    <tr><td>Registration</td><td>{{.RegistrationNumber}}</td></tr>
    <tr><td>Patient</td><td>{{title .PatientName}}</td></tr>
    <tr><td>Paid</td><td>{{date .PaidAt}}</td></tr>
  </table>
  <table class="lines">
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Subtotal</th></tr>
    <tr><td>Outpatient fee</td><td class="num">1</td><td class="num">{{money .OutpatientFee}}</td><td class="num">{{money .OutpatientFee}}</td></tr>
    {{- range .DrugLines}}
    <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Total}}</td></tr>
    {{- end}}
    {{- range .ActionLines}}
    <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Total}}</td></tr>
    {{- end}}
  </table>
  <div class="total">Total {{money .Total}}</div>
</body>
</html>
`))

// RenderInvoiceHTML renders the invoice template for a paid transaction
func RenderInvoiceHTML(data *InvoiceData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("invoice data is nil")
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}
