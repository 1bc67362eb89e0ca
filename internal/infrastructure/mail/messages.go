package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// OrderLine is a rendered order row
type OrderLine struct {
	Name      string
	Size      string
	Frame     string
	Quantity  int
	LineTotal string
}

// OrderConfirmationData feeds the buyer confirmation template
type OrderConfirmationData struct {
	Name        string
	OrderNumber string
	Lines       []OrderLine
	Total       string
}

// VendorSaleData feeds the vendor notification template
type VendorSaleData struct {
	StoreName   string
	OrderNumber string
	Lines       []OrderLine
}

// PasswordResetData feeds the password reset template
type PasswordResetData struct {
	Name     string
	ResetURL string
	TTLHours int
}

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<p>Hi {{.Name}},</p>
<p>Thanks for your order <strong>{{.OrderNumber}}</strong>. Here is what you bought:</p>
<ul>
{{range .Lines}}<li>{{.Quantity}} &times; {{.Name}} ({{.Size}}, {{.Frame}}) &mdash; {{.LineTotal}}</li>
{{end}}</ul>
<p>Order total: <strong>{{.Total}}</strong></p>
<p>We will email you again when your order ships.</p>
`))

var vendorSaleTmpl = template.Must(template.New("vendor_sale").Parse(`
<p>Good news! {{.StoreName}} just made a sale.</p>
<p>Order <strong>{{.OrderNumber}}</strong> includes:</p>
<ul>
{{range .Lines}}<li>{{.Quantity}} &times; {{.Name}} ({{.Size}}, {{.Frame}})</li>
{{end}}</ul>
<p>Sign in to your dashboard to start processing it.</p>
`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. Click the link below to choose a new one:</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>The link expires in {{.TTLHours}} hours. If you did not request this, you can ignore this email.</p>
`))

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderOrderConfirmation renders the buyer confirmation body
func RenderOrderConfirmation(data OrderConfirmationData) (string, error) {
	return render(orderConfirmationTmpl, data)
}

// RenderVendorSale renders the vendor notification body
func RenderVendorSale(data VendorSaleData) (string, error) {
	return render(vendorSaleTmpl, data)
}

// RenderPasswordReset renders the password reset body
func RenderPasswordReset(data PasswordResetData) (string, error) {
	return render(passwordResetTmpl, data)
}
