package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/validation"
)

type ClientHandler struct {
	DB *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

type clientListItem struct {
	models.Client
	JobCount     int64 `json:"jobCount"`
	InvoiceCount int64 `json:"invoiceCount"`
}

// List: GET /api/clients. Newest first, annotated with job/invoice counts.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	var clients []models.Client
	if err := h.DB.Order("created_at desc").Find(&clients).Error; err != nil {
		zap.L().Error("list clients", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list clients", nil)
		return
	}
	jobCounts, err := countByClient(h.DB, &models.Job{})
	if err != nil {
		zap.L().Error("count jobs per client", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list clients", nil)
		return
	}
	invoiceCounts, err := countByClient(h.DB, &models.Invoice{})
	if err != nil {
		zap.L().Error("count invoices per client", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list clients", nil)
		return
	}
	items := make([]clientListItem, 0, len(clients))
	for _, c := range clients {
		items = append(items, clientListItem{
			Client:       c,
			JobCount:     jobCounts[c.ID],
			InvoiceCount: invoiceCounts[c.ID],
		})
	}
	httpx.JSON(w, http.StatusOK, items)
}

func countByClient(db *gorm.DB, model any) (map[uint]int64, error) {
	type row struct {
		ClientID uint
		N        int64
	}
	var rows []row
	if err := db.Model(model).Select("client_id, COUNT(*) as n").Group("client_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.ClientID] = r.N
	}
	return out, nil
}

type createClientRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Notes     string `json:"notes"`
}

// Create: POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	v := validation.Violations{}
	validation.Required("firstName", req.FirstName, v)
	validation.Required("lastName", req.LastName, v)
	validation.Required("phone", req.Phone, v)
	validation.Required("address", req.Address, v)
	validation.Required("city", req.City, v)
	validation.Required("state", req.State, v)
	validation.Required("zipCode", req.ZipCode, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "required fields are missing", v)
		return
	}
	client := models.Client{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Notes:     req.Notes,
	}
	if err := h.DB.Create(&client).Error; err != nil {
		zap.L().Error("create client", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to create client", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}
