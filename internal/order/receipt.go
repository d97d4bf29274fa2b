package order

import (
	"html/template"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var mmkPrinter = message.NewPrinter(language.English)

// FormatMMK renders an amount the way the till prints it: grouped
// digits, no decimals.
func FormatMMK(amount float64) string {
	return mmkPrinter.Sprintf("MMK %.0f", amount)
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"mmk": FormatMMK,
	"lineTotal": func(item OrderItem) float64 {
		return item.Price * float64(item.Qty)
	},
}).Parse(`<html>
  <head>
    <title>Order #{{.ID}}</title>
    <style>
      body { font-family: monospace; width: 300px; padding: 10px; }
      h1 { text-align: center; font-size: 18px; }
      p, td { font-size: 14px; }
      table { width: 100%; border-collapse: collapse; margin-top: 10px; }
      th, td { text-align: left; padding: 2px 0; }
      tfoot td { border-top: 1px dashed #000; font-weight: bold; }
    </style>
  </head>
  <body>
    <h1>MMK Restaurant</h1>
    <p>Order ID: {{.ID}}</p>
    <p>Date: {{.CreatedAt.Format "02 Jan 2006 15:04:05"}}</p>
    <table>
      <thead>
        <tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
      </thead>
      <tbody>
        {{range .Items}}<tr>
          <td>{{.MenuName}}</td>
          <td>{{.Qty}}</td>
          <td>{{mmk .Price}}</td>
          <td>{{mmk (lineTotal .)}}</td>
        </tr>
        {{end}}
      </tbody>
      <tfoot>
        <tr><td colspan="3">Total</td><td>{{mmk .Total}}</td></tr>
      </tfoot>
    </table>
    <p style="text-align:center;">Thank you!</p>
  </body>
</html>
`))

// WriteReceipt renders the printable HTML receipt for an order.
func WriteReceipt(w io.Writer, o *Order) error {
	return receiptTmpl.Execute(w, o)
}
