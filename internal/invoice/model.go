// Package invoice manages the invoices providers attach to delivered
// orders. Only the file name is tracked here; byte storage lives elsewhere.
package invoice

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

type Invoice struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	OrderID       string `json:"orderId"`
	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate,omitempty"`
	Amount        string `json:"amount"` // NUMERIC -> string
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	File          string `json:"file"`
}

// ToggleStatus flips pending to paid and back.
func ToggleStatus(status string) string {
	if status == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}
