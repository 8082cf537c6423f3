package email

import (
	"html/template"
	"strings"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

var funcs = template.FuncMap{
	"price": func(item domain.NotificationItem) string {
		if item.FreeContribution {
			return "Free offer"
		}
		if item.UnitPrice == nil || !item.UnitPrice.IsPositive() {
			return "Included"
		}
		return "€" + item.UnitPrice.StringFixed(2)
	},
}

var adminTemplate = template.Must(template.New("admin").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><body>
<h1>New gift received</h1>
<p><strong>Code:</strong> <code>{{.SessionCode}}</code></p>
<p><strong>Guest:</strong> {{.GuestName}}</p>
{{- if .GuestEmail}}
<p><strong>Guest email:</strong> {{.GuestEmail}}</p>
{{- end}}
{{- if .GuestMessage}}
<p><strong>Message:</strong><br><em>"{{.GuestMessage}}"</em></p>
{{- end}}
<table>
{{- range .Items}}
<tr><td><strong>{{.Title}}</strong><br><small>{{.Description}}</small></td><td>{{price .}}</td></tr>
{{- end}}
</table>
{{template "total" .}}
<p>Next: wait for the bank transfer referencing <strong>{{.SessionCode}}</strong>, match it to this order, then book the experiences.</p>
</body></html>
`))

var guestTemplate = template.Must(template.New("guest").Funcs(funcs).Parse(`<!DOCTYPE html>
<html><body>
<h1>Thank you, {{.GuestName}}!</h1>
<p>Your gift reference is <code>{{.SessionCode}}</code>. Please include it in the bank transfer description.</p>
<table>
{{- range .Items}}
<tr><td><strong>{{.Title}}</strong></td><td>{{price .}}</td></tr>
{{- end}}
</table>
{{template "total" .}}
</body></html>
`))

const totalPartial = `{{define "total"}}
{{- if and .HasFree .Total.IsZero}}
<p>Free offer only, amount at your discretion.</p>
{{- else}}
<p><strong>Suggested total contribution: €{{.Total.StringFixed 2}}</strong></p>
{{- end}}
{{end}}`

func init() {
	template.Must(adminTemplate.Parse(totalPartial))
	template.Must(guestTemplate.Parse(totalPartial))
}

func render(tmpl *template.Template, n domain.Notification) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}
