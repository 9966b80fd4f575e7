package models

import (
	"fmt"
	"time"
)

// Invoice statuses.
const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// FirstInvoiceSeq is the numeric part of the very first invoice number.
const FirstInvoiceSeq = 1001

type Invoice struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	InvoiceNumber string            `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	NumberSeq     int               `gorm:"uniqueIndex;not null" json:"-"`
	Status        string            `gorm:"not null;index;default:'draft'" json:"status"`
	ClientID      uint              `gorm:"not null;index" json:"clientId"`
	Client        Client            `gorm:"foreignKey:ClientID" json:"client"`
	JobID         *uint             `gorm:"index" json:"jobId,omitempty"`
	Job           *Job              `gorm:"foreignKey:JobID" json:"job,omitempty"`
	CreatedByID   uint              `json:"createdById"`
	LineItems     []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"lineItems"`
	Subtotal      float64           `gorm:"not null" json:"subtotal"`
	Tax           float64           `gorm:"not null" json:"tax"`
	Total         float64           `gorm:"not null" json:"total"`
	AmountPaid    float64           `gorm:"not null;default:0" json:"amountPaid"`
	IssueDate     time.Time         `json:"issueDate"`
	DueDate       time.Time         `json:"dueDate"`
	PaidDate      *time.Time        `json:"paidDate,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// InvoiceLineItem is one priced row of an invoice. Total is persisted
// redundantly at creation time and never recomputed afterwards.
type InvoiceLineItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	InvoiceID   uint    `gorm:"not null;index" json:"invoiceId"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	Total       float64 `gorm:"not null" json:"total"`
}

// FormatInvoiceNumber renders the human-readable number for a sequence value.
func FormatInvoiceNumber(seq int) string {
	return fmt.Sprintf("INV-%d", seq)
}

var invoiceTransitions = map[string][]string{
	InvoiceDraft:   {InvoiceSent},
	InvoiceSent:    {InvoicePaid, InvoiceOverdue},
	InvoiceOverdue: {InvoicePaid},
}

// CanTransitionInvoice reports whether an invoice may move between statuses.
func CanTransitionInvoice(from, to string) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
