package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// Pounds formats pence for display, e.g. 4550 -> "£45.50".
func Pounds(pence int) string {
	return fmt.Sprintf("£%d.%02d", pence/100, pence%100)
}

type emailData struct {
	Reference    string
	CustomerName string
	Postcode     string
	Items        []itemData
	Total        string
	NewStatus    string
}

type itemData struct {
	Name      string
	Quantity  int
	LineTotal string
}

var statusLabels = map[string]string{
	"new":              "received",
	"paid":             "paid",
	"out_for_delivery": "out for delivery",
	"delivered":        "delivered",
	"cancelled":        "cancelled",
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<html><body>
<p>Hello {{.CustomerName}},</p>
<p>Thanks for your order <strong>{{.Reference}}</strong>. Here is what we have down for you:</p>
<table>
{{range .Items}}<tr><td>{{.Quantity}} × {{.Name}}</td><td>{{.LineTotal}}</td></tr>
{{end}}</table>
<p>Total including delivery: <strong>{{.Total}}</strong></p>
<p>We will be in touch to arrange your delivery to {{.Postcode}}.</p>
</body></html>`))

var confirmationText = texttemplate.Must(texttemplate.New("confirmation").Parse(`Hello {{.CustomerName}},

Thanks for your order {{.Reference}}. Here is what we have down for you:
{{range .Items}}
  {{.Quantity}} x {{.Name}} - {{.LineTotal}}{{end}}

Total including delivery: {{.Total}}

We will be in touch to arrange your delivery to {{.Postcode}}.
`))

var staffHTML = template.Must(template.New("staff").Parse(`<html><body>
<p>New order <strong>{{.Reference}}</strong> from {{.CustomerName}} ({{.Postcode}}).</p>
<table>
{{range .Items}}<tr><td>{{.Quantity}} × {{.Name}}</td><td>{{.LineTotal}}</td></tr>
{{end}}</table>
<p>Total: <strong>{{.Total}}</strong></p>
</body></html>`))

var staffText = texttemplate.Must(texttemplate.New("staff").Parse(`New order {{.Reference}} from {{.CustomerName}} ({{.Postcode}}).
{{range .Items}}
  {{.Quantity}} x {{.Name}} - {{.LineTotal}}{{end}}

Total: {{.Total}}
`))

var statusHTML = template.Must(template.New("status").Parse(`<html><body>
<p>Hello {{.CustomerName}},</p>
<p>Your order <strong>{{.Reference}}</strong> is now <strong>{{.NewStatus}}</strong>.</p>
</body></html>`))

var statusText = texttemplate.Must(texttemplate.New("status").Parse(`Hello {{.CustomerName}},

Your order {{.Reference}} is now {{.NewStatus}}.
`))

func buildData(intent interfaces.NotificationIntent) emailData {
	items := make([]itemData, len(intent.Items))
	for i, item := range intent.Items {
		items[i] = itemData{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: Pounds(item.LineTotal),
		}
	}

	label, ok := statusLabels[string(intent.NewStatus)]
	if !ok {
		label = strings.ReplaceAll(string(intent.NewStatus), "_", " ")
	}

	return emailData{
		Reference:    intent.Reference,
		CustomerName: intent.CustomerName,
		Postcode:     intent.Postcode,
		Items:        items,
		Total:        Pounds(intent.Total),
		NewStatus:    label,
	}
}

func render(htmlTmpl *template.Template, textTmpl *texttemplate.Template, data emailData) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// RenderOrderConfirmation builds the customer "we got your order" email.
func RenderOrderConfirmation(intent interfaces.NotificationIntent, to string) (interfaces.Email, error) {
	html, text, err := render(confirmationHTML, confirmationText, buildData(intent))
	if err != nil {
		return interfaces.Email{}, err
	}
	return interfaces.Email{
		To:       to,
		Subject:  fmt.Sprintf("Order %s confirmed", intent.Reference),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// RenderStaffNewOrder builds the internal heads-up about a new order.
func RenderStaffNewOrder(intent interfaces.NotificationIntent, to string) (interfaces.Email, error) {
	html, text, err := render(staffHTML, staffText, buildData(intent))
	if err != nil {
		return interfaces.Email{}, err
	}
	return interfaces.Email{
		To:       to,
		Subject:  fmt.Sprintf("New order %s: %s", intent.Reference, Pounds(intent.Total)),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// RenderStatusChange builds the customer status-change notice.
func RenderStatusChange(intent interfaces.NotificationIntent, to string) (interfaces.Email, error) {
	data := buildData(intent)
	html, text, err := render(statusHTML, statusText, data)
	if err != nil {
		return interfaces.Email{}, err
	}
	return interfaces.Email{
		To:       to,
		Subject:  fmt.Sprintf("Order %s update: %s", intent.Reference, data.NewStatus),
		HTMLBody: html,
		TextBody: text,
	}, nil
}
