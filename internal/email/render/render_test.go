package render

import (
	"strings"
	"testing"
	"time"

	invdomain "github.com/Black1604/cloud1604-solution/internal/invoices/domain"
)

func testRenderer() *Renderer {
	return New(Branding{
		CompanyName:       "Business Solution System",
		CompanyEmail:      "finance@company.com",
		CompanyPhone:      "+1 (555) 123-4567",
		BankName:          "Example Bank",
		BankAccountName:   "Business Solution",
		BankAccountNumber: "XXXX-XXXX-XXXX",
	})
}

func dueDate() *time.Time {
	d := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestInvoiceStatus_Pending(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-001",
		Status:        invdomain.StatusPending,
		CustomerName:  "John Doe",
		Total:         1234.56,
		DueDate:       dueDate(),
	})

	if want := "Invoice 2024-001 - Pending Status Update"; c.Subject != want {
		t.Errorf("subject = %q, want %q", c.Subject, want)
	}
	for _, frag := range []string{
		"Dear John Doe",
		"We have issued invoice #2024-001",
		"$1,234.56",
		"Due Date: Tuesday, December 31, 2024",
		"The payment is due by Tuesday, December 31, 2024",
	} {
		if !strings.Contains(c.Text, frag) {
			t.Errorf("text body missing %q", frag)
		}
	}
	for _, frag := range []string{
		"Payment Instructions",
		"Example Bank",
		"Business Solution",
		"XXXX-XXXX-XXXX",
		"Reference: INV-2024-001",
		"#2563eb",
		"#dbeafe",
	} {
		if !strings.Contains(c.HTML, frag) {
			t.Errorf("html body missing %q", frag)
		}
	}
}

func TestInvoiceStatus_Overdue(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-002",
		Status:        invdomain.StatusOverdue,
		CustomerName:  "Jane Smith",
		Total:         500,
	})

	if want := "Invoice 2024-002 - Overdue Status Update"; c.Subject != want {
		t.Errorf("subject = %q, want %q", c.Subject, want)
	}
	if !strings.Contains(c.Text, "past its due date and requires immediate attention") {
		t.Error("text body missing overdue message")
	}
	if !strings.Contains(c.Text, "$500.00") {
		t.Error("text body missing formatted total")
	}
	for _, frag := range []string{"Urgent Payment Required", "#991b1b", "#dc2626"} {
		if !strings.Contains(c.HTML, frag) {
			t.Errorf("html body missing %q", frag)
		}
	}
}

func TestInvoiceStatus_Paid(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-003",
		Status:        invdomain.StatusPaid,
		CustomerName:  "John Doe",
		Total:         99.9,
	})

	if !strings.Contains(c.Text, "We have received your payment for invoice #2024-003") {
		t.Error("text body missing paid message")
	}
	if strings.Contains(c.HTML, "Payment Instructions") || strings.Contains(c.HTML, "Urgent Payment Required") {
		t.Error("paid email must not carry a payment block")
	}
	if !strings.Contains(c.HTML, "#16a34a") {
		t.Error("html body missing paid status color")
	}
	if !strings.Contains(c.Text, "$99.90") {
		t.Error("text body missing formatted total")
	}
}

func TestInvoiceStatus_Cancelled(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-004",
		Status:        invdomain.StatusCancelled,
		CustomerName:  "John Doe",
		Total:         10,
	})

	if !strings.Contains(c.Text, "Invoice #2024-004 has been cancelled as requested.") {
		t.Error("text body missing cancelled message")
	}
	if !strings.Contains(c.Text, "No further action is required") {
		t.Error("text body missing cancelled call to action")
	}
	if strings.Contains(c.HTML, "Reference: INV-") {
		t.Error("cancelled email must not carry a payment block")
	}
}

func TestInvoiceStatus_MissingDueDate(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-005",
		Status:        invdomain.StatusPending,
		CustomerName:  "John Doe",
		Total:         50,
	})

	if strings.Contains(c.Text, "Due Date:") || strings.Contains(c.HTML, "Due Date:") {
		t.Error("due date line must be omitted when none is set")
	}
	if !strings.Contains(c.Text, "Please process the payment at your earliest convenience.") {
		t.Error("text body missing fallback call to action")
	}
}

func TestInvoiceStatus_UnrecognizedStatus(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-008",
		Status:        invdomain.Status("REFUNDED"),
		CustomerName:  "John Doe",
		Total:         42,
	})

	// the static shell still renders
	if want := "Invoice 2024-008 - Refunded Status Update"; c.Subject != want {
		t.Errorf("subject = %q, want %q", c.Subject, want)
	}
	for _, frag := range []string{"Dear John Doe", "Invoice Number: 2024-008", "Status: REFUNDED", "$42.00"} {
		if !strings.Contains(c.Text, frag) {
			t.Errorf("text body missing %q", frag)
		}
	}
	if c.HTML == "" {
		t.Fatal("html body empty")
	}

	// no status-specific copy and no payment block
	for _, frag := range []string{
		"We have issued invoice",
		"past its due date",
		"We have received your payment",
		"has been cancelled",
		"Payment Instructions",
		"Urgent Payment Required",
	} {
		if strings.Contains(c.Text, frag) || strings.Contains(c.HTML, frag) {
			t.Errorf("unrecognized status carried status-specific copy %q", frag)
		}
	}

	// default styling applies
	if !strings.Contains(c.HTML, "#4b5563") {
		t.Error("html body missing fallback status color")
	}
}

func TestInvoiceStatus_SanitizesInput(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "<b>2024-006</b>",
		Status:        invdomain.StatusPaid,
		CustomerName:  "<script>alert(1)</script>John",
		Total:         1,
	})

	if strings.Contains(c.Subject, "<b>") {
		t.Errorf("subject carries markup: %q", c.Subject)
	}
	if !strings.Contains(c.Subject, "Invoice 2024-006") {
		t.Errorf("subject = %q", c.Subject)
	}
	if strings.Contains(c.Text, "<script>") || strings.Contains(c.HTML, "<script>") {
		t.Error("script tag survived sanitization")
	}
	if !strings.Contains(c.Text, "Dear John") {
		t.Error("customer name lost during sanitization")
	}
}

func TestInvoiceStatus_CompanyOverride(t *testing.T) {
	c := testRenderer().InvoiceStatus(InvoiceContext{
		InvoiceNumber: "2024-007",
		Status:        invdomain.StatusPaid,
		CustomerName:  "John Doe",
		Total:         1,
		CompanyName:   "Tenant Trading Co",
	})

	if !strings.Contains(c.Text, "Tenant Trading Co") {
		t.Error("tenant company name override not applied")
	}
	if strings.Contains(c.Text, "Business Solution System") {
		t.Error("branding default leaked despite override")
	}
}

func TestFormatCurrency_Grouping(t *testing.T) {
	r := testRenderer()
	cases := map[float64]string{
		0:          "$0.00",
		1234.56:    "$1,234.56",
		1000000:    "$1,000,000.00",
		99.999:     "$100.00",
		0.1 + 0.2:  "$0.30",
		12345678.9: "$12,345,678.90",
	}
	for in, want := range cases {
		if got := r.formatCurrency(in); got != want {
			t.Errorf("formatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
}
