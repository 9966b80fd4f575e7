package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/auth"
	"github.com/mossbrook/landscaping/internal/gate"
	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/models"
	"github.com/mossbrook/landscaping/internal/validation"
)

type EmployeeHandler struct {
	DB *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler { return &EmployeeHandler{DB: db} }

// List: GET /api/employees. Password hashes never leave the model's
// json:"-" tag.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("name asc").Find(&users).Error; err != nil {
		zap.L().Error("list employees", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list employees", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

type createEmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// Create: POST /api/employees. Admin only.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var caller models.User
	if err := h.DB.First(&caller, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	if err := gate.Authorize(caller.Role, gate.ActionCreate, "employee"); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req createEmployeeRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	if req.Role == "" {
		req.Role = models.RoleEmployee
	} else if !models.ValidRole(req.Role) {
		v["role"] = "invalid_value"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "required fields are missing", v)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("hash password", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to create employee", nil)
		return
	}
	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		Password: string(hash),
		Role:     req.Role,
		Phone:    req.Phone,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		zap.L().Error("create employee", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to create employee", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}
