package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/auth"
	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/services"
)

type InvoiceHandler struct {
	DB  *gorm.DB
	Svc *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc}
}

// List: GET /api/invoices. Newest first with client, job, and line items.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var invoices []models.Invoice
	if err := h.DB.Preload("Client").Preload("Job").Preload("LineItems").
		Order("created_at desc").
		Find(&invoices).Error; err != nil {
		zap.L().Error("list invoices", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

type createInvoiceRequest struct {
	ClientID  uint                     `json:"clientId"`
	JobID     *uint                    `json:"jobId"`
	LineItems []services.LineItemInput `json:"lineItems"`
	Tax       float64                  `json:"tax"`
	Notes     string                   `json:"notes"`
	DueDate   string                   `json:"dueDate"` // "2006-01-02"
}

// Create: POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	dueDate := time.Now().AddDate(0, 1, 0)
	if req.DueDate != "" {
		if d, err := time.Parse("2006-01-02", req.DueDate); err == nil {
			dueDate = d
		}
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	inv, err := h.Svc.Create(r.Context(), services.CreateInvoiceInput{
		ClientID:    req.ClientID,
		JobID:       req.JobID,
		LineItems:   req.LineItems,
		Tax:         req.Tax,
		Notes:       req.Notes,
		DueDate:     dueDate,
		CreatedByID: uid,
	})
	if err != nil {
		httpx.ServiceError(w, err, "failed to create invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// UpdateStatus: PATCH /api/invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req updateStatusRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	inv, svcErr := h.Svc.UpdateStatus(r.Context(), uint(id), req.Status)
	if svcErr != nil {
		httpx.ServiceError(w, svcErr, "failed to update invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}
