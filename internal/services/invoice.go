package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/validation"
)

// numberRetries bounds how often invoice creation retries after losing a
// race on the unique number sequence.
const numberRetries = 3

// InvoiceService encapsulates invoice computation and numbering.
type InvoiceService struct {
	DB *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService { return &InvoiceService{DB: db} }

// LineItemInput is one requested invoice row. Quantity and unit price are
// coerced rather than rejected: malformed or out-of-range numbers fall
// back to 1 and 0 respectively, matching the lenient intake behavior.
type LineItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type CreateInvoiceInput struct {
	ClientID    uint            `json:"clientId"`
	JobID       *uint           `json:"jobId"`
	LineItems   []LineItemInput `json:"lineItems"`
	Tax         float64         `json:"tax"`
	Notes       string          `json:"notes"`
	DueDate     time.Time       `json:"dueDate"`
	CreatedByID uint            `json:"-"`
}

// CoerceQuantity clamps a requested quantity to an integer >= 1.
func CoerceQuantity(q float64) int {
	n := int(q)
	if n < 1 {
		return 1
	}
	return n
}

// CoerceUnitPrice clamps a requested unit price to >= 0.
func CoerceUnitPrice(p float64) float64 {
	if p < 0 {
		return 0
	}
	return p
}

// BuildLineItems derives persisted rows from the request. Each total is
// fixed at quantity * unit price here and never recomputed afterwards.
func BuildLineItems(inputs []LineItemInput) ([]models.InvoiceLineItem, float64) {
	items := make([]models.InvoiceLineItem, 0, len(inputs))
	var subtotal float64
	for _, in := range inputs {
		qty := CoerceQuantity(in.Quantity)
		price := CoerceUnitPrice(in.UnitPrice)
		total := float64(qty) * price
		items = append(items, models.InvoiceLineItem{
			Description: in.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       total,
		})
		subtotal += total
	}
	return items, subtotal
}

// Create validates the request, computes totals, assigns the next invoice
// number, and persists invoice plus line items in one transaction. The
// number sequence is backed by a unique index; losing a concurrent race
// surfaces as a duplicate-key error and is retried a bounded number of
// times with a fresh sequence value.
func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	v := validation.Violations{}
	validation.RequiredID("clientId", in.ClientID, v)
	if len(in.LineItems) == 0 {
		v["lineItems"] = "required"
	}
	if err := Invalid(v); err != nil {
		return nil, err
	}

	var client models.Client
	if err := s.DB.WithContext(ctx).First(&client, in.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if in.JobID != nil {
		var job models.Job
		if err := s.DB.WithContext(ctx).First(&job, *in.JobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	items, subtotal := BuildLineItems(in.LineItems)
	tax := in.Tax
	if tax < 0 {
		tax = 0
	}

	var created *models.Invoice
	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		created, err = s.createNumbered(ctx, in, items, subtotal, tax)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, err
}

func (s *InvoiceService) createNumbered(ctx context.Context, in CreateInvoiceInput, items []models.InvoiceLineItem, subtotal, tax float64) (*models.Invoice, error) {
	inv := models.Invoice{
		Status:      models.InvoiceDraft,
		ClientID:    in.ClientID,
		JobID:       in.JobID,
		CreatedByID: in.CreatedByID,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       subtotal + tax,
		IssueDate:   time.Now(),
		DueDate:     in.DueDate,
		Notes:       in.Notes,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextNumberSeq(tx)
		if err != nil {
			return err
		}
		inv.NumberSeq = seq
		inv.InvoiceNumber = models.FormatInvoiceNumber(seq)
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		rows := make([]models.InvoiceLineItem, len(items))
		copy(rows, items)
		for i := range rows {
			rows[i].InvoiceID = inv.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		inv.LineItems = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Preload("Client").Preload("LineItems").First(&inv, inv.ID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// nextNumberSeq reads the current maximum sequence. The first invoice
// ever created gets 1001.
func nextNumberSeq(tx *gorm.DB) (int, error) {
	var maxSeq int
	row := tx.Model(&models.Invoice{}).Select("COALESCE(MAX(number_seq), 0)").Row()
	if err := row.Scan(&maxSeq); err != nil {
		return 0, err
	}
	if maxSeq == 0 {
		return models.FirstInvoiceSeq, nil
	}
	return maxSeq + 1, nil
}

// UpdateStatus moves an invoice through draft -> sent -> paid/overdue.
// Marking paid records the payment date and settles amountPaid.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.WithContext(ctx).Preload("Client").Preload("LineItems").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !models.CanTransitionInvoice(inv.Status, status) {
		return nil, Invalid(validation.Violations{"status": "invalid_transition"})
	}
	updates := map[string]any{"status": status}
	if status == models.InvoicePaid {
		now := time.Now()
		updates["paid_date"] = &now
		updates["amount_paid"] = inv.Total
	}
	if err := s.DB.WithContext(ctx).Model(&inv).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}
