package handlers

import (
	"net/http"

	"github.com/clinicconnect/clinicconnect-api/internal/cache"
	"github.com/gin-gonic/gin"
)

// CatalogStatus is what the healthcheck reports on
type CatalogStatus interface {
	IsReady() bool
	GetMetadata() (*cache.CacheMetadata, error)
}

type HealthHandler struct {
	catalog CatalogStatus
}

func NewHealthHandler(catalog CatalogStatus) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if !h.catalog.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "catalog cache not initialized",
		})
		return
	}

	body := gin.H{"status": "ok"}
	if meta, err := h.catalog.GetMetadata(); err == nil {
		body["catalog"] = meta
	}
	c.JSON(http.StatusOK, body)
}
