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
	"github.com/mossbrook/landscaping/internal/validation"
)

type JobHandler struct {
	DB  *gorm.DB
	Svc *services.JobService
}

func NewJobHandler(db *gorm.DB, svc *services.JobService) *JobHandler {
	return &JobHandler{DB: db, Svc: svc}
}

// List: GET /api/jobs. Scheduled date ascending, then newest first.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	var jobs []models.Job
	if err := h.DB.Preload("Client").Preload("AssignedTo").
		Order("scheduled_date asc").Order("created_at desc").
		Find(&jobs).Error; err != nil {
		zap.L().Error("list jobs", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list jobs", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, jobs)
}

type createJobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ServiceType    string   `json:"serviceType"`
	Priority       string   `json:"priority"`
	ClientID       uint     `json:"clientId"`
	AssignedToID   *uint    `json:"assignedToId"`
	ScheduledDate  string   `json:"scheduledDate"` // "2006-01-02", optional
	ScheduledTime  string   `json:"scheduledTime"` // "HH:MM", optional
	EstimatedHours *float64 `json:"estimatedHours"`
	EstimatedCost  *float64 `json:"estimatedCost"`
	JobAddress     string   `json:"jobAddress"`
	JobCity        string   `json:"jobCity"`
	JobState       string   `json:"jobState"`
	JobZipCode     string   `json:"jobZipCode"`
}

// Create: POST /api/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	v := validation.Violations{}
	validation.Required("title", req.Title, v)
	validation.Required("serviceType", req.ServiceType, v)
	validation.RequiredID("clientId", req.ClientID, v)
	validation.Required("jobAddress", req.JobAddress, v)
	validation.Required("jobCity", req.JobCity, v)
	validation.Required("jobState", req.JobState, v)
	validation.Required("jobZipCode", req.JobZipCode, v)
	if req.ServiceType != "" && !models.ValidServiceType(req.ServiceType) {
		v["serviceType"] = "invalid_value"
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	} else if !models.ValidPriority(req.Priority) {
		v["priority"] = "invalid_value"
	}
	var scheduledDate *time.Time
	if req.ScheduledDate != "" {
		d, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			v["scheduledDate"] = "invalid_date"
		} else {
			scheduledDate = &d
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "required fields are missing", v)
		return
	}

	var client models.Client
	if err := h.DB.First(&client, req.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not found", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	job := models.Job{
		Title:          req.Title,
		Description:    req.Description,
		ServiceType:    req.ServiceType,
		Priority:       req.Priority,
		Status:         models.InitialJobStatus(scheduledDate),
		ClientID:       req.ClientID,
		AssignedToID:   req.AssignedToID,
		CreatedByID:    uid,
		ScheduledDate:  scheduledDate,
		ScheduledTime:  req.ScheduledTime,
		EstimatedHours: req.EstimatedHours,
		EstimatedCost:  req.EstimatedCost,
		JobAddress:     req.JobAddress,
		JobCity:        req.JobCity,
		JobState:       req.JobState,
		JobZipCode:     req.JobZipCode,
	}
	if err := h.DB.Create(&job).Error; err != nil {
		zap.L().Error("create job", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to create job", nil)
		return
	}
	job.Client = client
	httpx.JSON(w, http.StatusCreated, job)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus: PATCH /api/jobs/{id}/status
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req updateStatusRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	job, svcErr := h.Svc.UpdateStatus(r.Context(), uint(id), req.Status)
	if svcErr != nil {
		httpx.ServiceError(w, svcErr, "failed to update job")
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}
