// Package render turns invoice status changes into email content. Rendering is
// pure with respect to its inputs and the injected branding; user-supplied text
// is stripped of markup before it reaches either body.
package render

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	invdomain "github.com/Black1604/cloud1604-solution/internal/invoices/domain"
	"github.com/Black1604/cloud1604-solution/internal/platform/sanitize"
)

// Branding carries the company and bank details interpolated into every email.
type Branding struct {
	CompanyName  string
	CompanyEmail string
	CompanyPhone string
	CompanyLogo  string

	BankName          string
	BankAccountName   string
	BankAccountNumber string
}

// InvoiceContext is the per-invoice input to rendering. CompanyName, when set,
// overrides the branding default (per-tenant display names).
type InvoiceContext struct {
	InvoiceNumber string
	Status        invdomain.Status
	CustomerName  string
	Total         float64
	DueDate       *time.Time
	CompanyName   string
}

// Content is a rendered email.
type Content struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer renders invoice status emails for one branding configuration.
type Renderer struct {
	branding Branding
	printer  *message.Printer
}

func New(b Branding) *Renderer {
	return &Renderer{branding: b, printer: message.NewPrinter(language.AmericanEnglish)}
}

type statusStyle struct {
	color      htmltemplate.CSS
	background htmltemplate.CSS
}

var statusStyles = map[invdomain.Status]statusStyle{
	invdomain.StatusPending:   {color: "#2563eb", background: "#dbeafe"},
	invdomain.StatusOverdue:   {color: "#dc2626", background: "#fee2e2"},
	invdomain.StatusPaid:      {color: "#16a34a", background: "#dcfce7"},
	invdomain.StatusCancelled: {color: "#4b5563", background: "#f3f4f6"},
}

var defaultStyle = statusStyle{color: "#4b5563", background: "#f3f4f6"}

type paymentBlock struct {
	Heading       string
	HeadingColor  htmltemplate.CSS
	Background    htmltemplate.CSS
	BankName      string
	AccountName   string
	AccountNumber string
	Reference     string
}

type emailData struct {
	CustomerName     string
	InvoiceNumber    string
	Status           string
	StatusMessage    string
	CallToAction     string
	TotalFormatted   string
	DueDateFormatted string
	CompanyName      string
	CompanyEmail     string
	CompanyPhone     string
	CompanyLogo      string
	StatusColor      htmltemplate.CSS
	StatusBackground htmltemplate.CSS
	Payment          *paymentBlock
}

// InvoiceStatus renders the subject, plain-text and HTML bodies for a status
// change. Unknown statuses yield empty status-specific copy rather than an
// error; the static details block still renders.
func (r *Renderer) InvoiceStatus(in InvoiceContext) Content {
	number := sanitize.Text(in.InvoiceNumber)
	customer := sanitize.Text(in.CustomerName)

	company := in.CompanyName
	if company == "" {
		company = r.branding.CompanyName
	}

	style, ok := statusStyles[in.Status]
	if !ok {
		style = defaultStyle
	}

	data := emailData{
		CustomerName:     customer,
		InvoiceNumber:    number,
		Status:           string(in.Status),
		TotalFormatted:   r.formatCurrency(in.Total),
		CompanyName:      company,
		CompanyEmail:     r.branding.CompanyEmail,
		CompanyPhone:     r.branding.CompanyPhone,
		CompanyLogo:      r.branding.CompanyLogo,
		StatusColor:      style.color,
		StatusBackground: style.background,
	}
	if in.DueDate != nil {
		data.DueDateFormatted = formatDate(*in.DueDate)
	}

	switch in.Status {
	case invdomain.StatusPending:
		data.StatusMessage = fmt.Sprintf("We have issued invoice #%s for your recent purchase. Please process the payment before the due date to maintain your good standing.", number)
		if data.DueDateFormatted != "" {
			data.CallToAction = fmt.Sprintf("The payment is due by %s. Early payment is appreciated.", data.DueDateFormatted)
		} else {
			data.CallToAction = "Please process the payment at your earliest convenience."
		}
		data.Payment = r.paymentBlock("Payment Instructions", "#0f172a", "#f8fafc", number)
	case invdomain.StatusOverdue:
		data.StatusMessage = fmt.Sprintf("This is a reminder that invoice #%s is past its due date and requires immediate attention.", number)
		data.CallToAction = "To avoid any service interruptions, please process the payment as soon as possible. If you have already made the payment, please disregard this notice and provide us with the payment details."
		data.Payment = r.paymentBlock("Urgent Payment Required", "#991b1b", "#fee2e2", number)
	case invdomain.StatusPaid:
		data.StatusMessage = fmt.Sprintf("We have received your payment for invoice #%s. Thank you for your prompt payment.", number)
		data.CallToAction = "Your account has been credited, and this invoice is now marked as paid. We appreciate your business."
	case invdomain.StatusCancelled:
		data.StatusMessage = fmt.Sprintf("Invoice #%s has been cancelled as requested.", number)
		data.CallToAction = "No further action is required regarding this invoice. Please contact us if you have any questions."
	}

	subject := fmt.Sprintf("Invoice %s - %s Status Update", number, in.Status.Label())

	var text bytes.Buffer
	_ = textTmpl.Execute(&text, data)
	var html bytes.Buffer
	_ = htmlTmpl.Execute(&html, data)

	return Content{Subject: subject, Text: text.String(), HTML: html.String()}
}

func (r *Renderer) paymentBlock(heading string, headingColor, background htmltemplate.CSS, number string) *paymentBlock {
	return &paymentBlock{
		Heading:       heading,
		HeadingColor:  headingColor,
		Background:    background,
		BankName:      r.branding.BankName,
		AccountName:   r.branding.BankAccountName,
		AccountNumber: r.branding.BankAccountNumber,
		Reference:     "INV-" + number,
	}
}

// formatCurrency renders 1234.56 as "$1,234.56".
func (r *Renderer) formatCurrency(v float64) string {
	return r.printer.Sprintf("$%.2f", v)
}

// formatDate renders the long human-readable form, e.g.
// "Tuesday, December 31, 2024".
func formatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

var textTmpl = texttemplate.Must(texttemplate.New("invoice_text").Parse(`Dear {{.CustomerName}},

{{.StatusMessage}}

Invoice Details:
- Invoice Number: {{.InvoiceNumber}}
- Status: {{.Status}}
- Total Amount: {{.TotalFormatted}}
{{- with .DueDateFormatted}}
- Due Date: {{.}}
{{- end}}

{{.CallToAction}}

If you have any questions or concerns, please don't hesitate to contact our finance department.

Best regards,
{{.CompanyName}}
{{.CompanyEmail}}
{{.CompanyPhone}}
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("invoice_html").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    {{- if .CompanyLogo}}
    <div style="text-align: center; margin-bottom: 30px;">
      <img src="{{.CompanyLogo}}" alt="{{.CompanyName}}" style="max-width: 200px; height: auto;">
    </div>
    {{- end}}

    <h2 style="color: #2c3e50; margin-bottom: 20px;">Invoice Status Update</h2>

    <p style="margin-bottom: 20px;">Dear {{.CustomerName}},</p>

    <p style="margin-bottom: 20px;">{{.StatusMessage}}</p>

    <div style="background-color: {{.StatusBackground}}; padding: 20px; border-radius: 5px; margin-bottom: 20px;">
      <h3 style="margin-top: 0; color: {{.StatusColor}};">Invoice Details</h3>
      <p style="margin: 5px 0;">Invoice Number: <strong>{{.InvoiceNumber}}</strong></p>
      <p style="margin: 5px 0;">Status: <strong style="color: {{.StatusColor}};">{{.Status}}</strong></p>
      <p style="margin: 5px 0;">Total Amount: <strong>{{.TotalFormatted}}</strong></p>
      {{- with .DueDateFormatted}}
      <p style="margin: 5px 0;">Due Date: <strong>{{.}}</strong></p>
      {{- end}}
    </div>

    <p style="margin-bottom: 20px;">{{.CallToAction}}</p>

    {{- with .Payment}}
    <div style="margin-top: 20px; padding: 15px; background-color: {{.Background}}; border-radius: 5px;">
      <h4 style="margin-top: 0; color: {{.HeadingColor}};">{{.Heading}}</h4>
      <p style="margin: 5px 0;">Bank: {{.BankName}}</p>
      <p style="margin: 5px 0;">Account Name: {{.AccountName}}</p>
      <p style="margin: 5px 0;">Account Number: {{.AccountNumber}}</p>
      <p style="margin: 5px 0;">Reference: {{.Reference}}</p>
    </div>
    {{- end}}

    <p style="margin: 20px 0;">If you have any questions or concerns, please don't hesitate to contact our finance department.</p>

    <div style="margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee;">
      <p style="margin: 5px 0;">Best regards,</p>
      <p style="margin: 5px 0;"><strong>{{.CompanyName}}</strong></p>
      <p style="margin: 5px 0; color: #666;">{{.CompanyEmail}}</p>
      <p style="margin: 5px 0; color: #666;">{{.CompanyPhone}}</p>
    </div>
  </div>
</body>
</html>
`))
