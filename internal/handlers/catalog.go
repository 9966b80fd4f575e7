package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mossbrook/landscaping/internal/catalog"
	"github.com/mossbrook/landscaping/internal/httpx"
)

type CatalogHandler struct {
	Cache *catalog.Cache
}

func NewCatalogHandler(cache *catalog.Cache) *CatalogHandler {
	return &CatalogHandler{Cache: cache}
}

// Get: GET /catalog.json serves the merged catalog. Edge caches get the
// same fresh/stale windows the in-process cache uses.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Get()
	if err != nil {
		zap.L().Error("load catalog", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed to load catalog", nil)
		return
	}
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	httpx.JSON(w, http.StatusOK, res)
}
