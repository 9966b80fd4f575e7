package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/auth"
	"github.com/mossbrook/landscaping/internal/gate"
	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/services"
	"github.com/mossbrook/landscaping/internal/validation"
)

type LeadHandler struct {
	DB  *gorm.DB
	Svc *services.LeadService
}

func NewLeadHandler(db *gorm.DB, svc *services.LeadService) *LeadHandler {
	return &LeadHandler{DB: db, Svc: svc}
}

// List: GET /api/leads. Newest first.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	var leads []models.Lead
	if err := h.DB.Order("created_at desc").Find(&leads).Error; err != nil {
		zap.L().Error("list leads", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list leads", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, leads)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// Submit: POST /api/contact. Public lead intake from the marketing site.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("email", req.Email, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "required fields are missing", v)
		return
	}
	lead := models.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
		Status:  models.LeadNew,
	}
	if err := h.DB.Create(&lead).Error; err != nil {
		zap.L().Error("create lead", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to submit", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, lead)
}

// UpdateStatus: PATCH /api/leads/{id}. Status is the only patchable field.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req updateStatusRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	lead, svcErr := h.Svc.UpdateStatus(r.Context(), uint(id), req.Status)
	if svcErr != nil {
		httpx.ServiceError(w, svcErr, "failed to update lead")
		return
	}
	httpx.JSON(w, http.StatusOK, lead)
}

// Delete: DELETE /api/leads/{id}. Hard delete, admin or manager only.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r, gate.ActionDelete) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if svcErr := h.Svc.Delete(r.Context(), uint(id)); svcErr != nil {
		httpx.ServiceError(w, svcErr, "failed to delete lead")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Convert: POST /api/leads/{id}/convert runs one transaction creating the
// client and advancing the lead.
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req services.ConvertInput
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	client, svcErr := h.Svc.Convert(r.Context(), uint(id), req)
	if svcErr != nil {
		httpx.ServiceError(w, svcErr, "failed to convert lead")
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *LeadHandler) allow(r *http.Request, action gate.Action) bool {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return false
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		return false
	}
	return gate.Can(user.Role, action, "lead")
}
