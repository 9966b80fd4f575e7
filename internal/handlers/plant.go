package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mossbrook/landscaping/internal/httpx"
	"github.com/mossbrook/landscaping/internal/models"
)

type PlantHandler struct {
	DB *gorm.DB
}

func NewPlantHandler(db *gorm.DB) *PlantHandler { return &PlantHandler{DB: db} }

var plantQuerySafe = regexp.MustCompile(`[^a-zA-Z0-9 \-_']`)

// List: GET /api/plants. Filtered, paginated, active records only.
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dbq := h.DB.Model(&models.Plant{}).Where("is_active = ?", true)

	if text := strings.TrimSpace(q.Get("q")); text != "" {
		safe := plantQuerySafe.ReplaceAllString(text, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where(
			"lower(common_name) LIKE ? OR lower(scientific_name) LIKE ? OR lower(cultivar) LIKE ? OR lower(genus) LIKE ?",
			like, like, like, like,
		)
	}
	if v := q.Get("plantType"); v != "" {
		dbq = dbq.Where("plant_type = ?", v)
	}
	if v := q.Get("category"); v != "" {
		dbq = dbq.Where("category = ?", v)
	}
	if v := q.Get("water"); v != "" {
		dbq = dbq.Where("water_needs = ?", v)
	}
	if v := q.Get("zone"); v != "" {
		// Out-of-range or non-numeric zones are ignored, not an error.
		if z, err := strconv.Atoi(v); err == nil && z >= 1 && z <= 13 {
			dbq = dbq.Where("usda_zone_min <= ? AND usda_zone_max >= ?", z, z)
		}
	}
	dbq = listFilter(dbq, "sun_exposure", q.Get("sun"))
	dbq = listFilter(dbq, "tags", q.Get("tag"))
	dbq = listFilter(dbq, "design_uses", q.Get("designUse"))

	page := 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		page = n
	}
	limit := 50
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 200 {
		limit = n
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		zap.L().Error("count plants", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list plants", nil)
		return
	}
	var plants []models.Plant
	if err := dbq.Order("common_name asc").Limit(limit).Offset((page - 1) * limit).Find(&plants).Error; err != nil {
		zap.L().Error("list plants", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to list plants", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"plants": plants,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// listFilter matches one value inside a JSON-text list column. Values are
// serialized as `"value"`, so a quoted LIKE is an exact element match.
func listFilter(dbq *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return dbq
	}
	safe := plantQuerySafe.ReplaceAllString(value, "")
	return dbq.Where(column+` LIKE ?`, `%"`+safe+`"%`)
}

// Create: POST /api/plants. Accepts one record or an array. Records with
// a full natural key (scientificName+cultivar) upsert; the rest insert.
func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !httpx.DecodeJSON(w, r, &raw) {
		return
	}
	trimmed := strings.TrimSpace(string(raw))
	var incoming []models.Plant
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &incoming); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
			return
		}
	} else {
		var one models.Plant
		if err := json.Unmarshal(raw, &one); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid JSON", nil)
			return
		}
		incoming = []models.Plant{one}
	}
	if len(incoming) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no records supplied", nil)
		return
	}

	results := make([]models.Plant, 0, len(incoming))
	for i := range incoming {
		p := incoming[i]
		p.ID = 0
		p.Normalize()
		p.IsActive = true
		if err := h.upsert(&p); err != nil {
			zap.L().Error("create plant", zap.Error(err), zap.String("commonName", p.CommonName))
			httpx.JSONError(w, http.StatusInternalServerError, "failed to create plant", nil)
			return
		}
		results = append(results, p)
	}
	if len(results) == 1 {
		httpx.JSON(w, http.StatusCreated, results[0])
		return
	}
	httpx.JSON(w, http.StatusCreated, results)
}

func (h *PlantHandler) upsert(p *models.Plant) error {
	if p.ScientificName != "" && p.Cultivar != "" {
		var existing models.Plant
		err := h.DB.Where("scientific_name = ? AND cultivar = ?", p.ScientificName, p.Cultivar).
			First(&existing).Error
		if err == nil {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			return h.DB.Save(p).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return h.DB.Create(p).Error
}
