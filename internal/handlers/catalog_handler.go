package handlers

import (
	"net/http"
	"strconv"

	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the static clinic content and the slot grid
type CatalogHandler struct {
	service services.CatalogServiceInterface
}

func NewCatalogHandler(service services.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// GetClinic handles GET /api/v1/clinic
func (h *CatalogHandler) GetClinic(c *gin.Context) {
	clinic, err := h.service.GetClinic(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch clinic info")
		return
	}
	c.JSON(http.StatusOK, clinic)
}

// ListProviders handles GET /api/v1/providers
func (h *CatalogHandler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch doctors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// GetProvider handles GET /api/v1/providers/:id
func (h *CatalogHandler) GetProvider(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	provider, err := h.service.GetProvider(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch doctor")
		return
	}
	c.JSON(http.StatusOK, provider)
}

// ListServices handles GET /api/v1/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	svcs, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": svcs})
}

// GetService handles GET /api/v1/services/:id
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID", err)
		return
	}

	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch service")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ListArticles handles GET /api/v1/articles
func (h *CatalogHandler) ListArticles(c *gin.Context) {
	articles, err := h.service.ListArticles(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch articles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle handles GET /api/v1/articles/:slug, which also accepts a numeric ID
func (h *CatalogHandler) GetArticle(c *gin.Context) {
	article, err := h.service.GetArticle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch article")
		return
	}
	c.JSON(http.StatusOK, article)
}

// GetSlots handles GET /api/v1/slots?date=YYYY-MM-DD
func (h *CatalogHandler) GetSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed",
			[]ValidationError{{Field: "date", Message: "date is required"}}, nil)
		return
	}

	resp, err := h.service.GenerateSlots(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err, "Failed to generate time slots")
		return
	}
	c.JSON(http.StatusOK, resp)
}
