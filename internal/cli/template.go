package cli

import (
	"fmt"
	"io"
	"text/template"
)

var funcs = template.FuncMap{
	"money": money,
	"inc":   func(i int) int { return i + 1 },
}

func render(w io.Writer, name, text string, data any) error {
	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

const statusTemplate = `
=== Session ===

Name:   {{.Name}}
Email:  {{.Email}}
Role:   {{.Role}}
UserID: {{.UserID}}
`

const productTemplate = `
=== {{.Product.Name}} ===

ID:       {{.Product.ID}}
Price:    {{money .Product.Price}}
Rating:   {{printf "%.1f" .Product.Rating.Rate}} ({{.Product.Rating.Count}} reviews)
{{- if .Product.Category }}
Category: {{.Product.Category}}
{{- end}}
{{- if .Brand }}
Brand:    {{.Brand}}
{{- end}}
{{- if .Partner }}
Partner:  {{.Partner}}
{{- end}}
{{- if .Collection }}
Collection: {{.Collection}}
{{- end}}
{{- if .Product.Color }}
Color:    {{.Product.Color}}
{{- end}}
{{- if .Product.Size }}
Size:     {{.Product.Size}}
{{- end}}
{{- if .Product.Description }}

{{.Product.Description}}
{{- end}}
`

const totalsTemplate = `Subtotal: {{money .Subtotal}}
Shipping: {{money .Shipping}}
VAT:      {{money .VAT}}
Total:    {{money .Total}}
`

const orderTemplate = `
=== Order #{{.Number}} ===

Date:    {{.Date}}
Payment: {{.PaymentMethod}}
{{range $i, $item := .Items}}
{{inc $i}}. {{$item.Product.Name}} x{{$item.Quantity}}  {{money $item.LineTotal}}
{{- end}}

Subtotal: {{money .Totals.Subtotal}}
Shipping: {{money .Totals.Shipping}}
VAT:      {{money .Totals.VAT}}
Total:    {{money .Totals.Total}}
`
