package handlers

import (
	"net/http"
	"strings"

	"github.com/clinicconnect/clinicconnect-api/internal/notify"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ColorSchemeHeader is the client hint consulted when no preference is stored
const ColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

const maxClientIDLength = 128

// NotifierLookup resolves the notification sink of a visit
type NotifierLookup interface {
	Notifier(visitID string) (notify.Sink, error)
}

// PreferenceHandler serves the dark mode flag
type PreferenceHandler struct {
	service services.PreferenceServiceInterface
	visits  NotifierLookup
}

func NewPreferenceHandler(service services.PreferenceServiceInterface, visits NotifierLookup) *PreferenceHandler {
	return &PreferenceHandler{service: service, visits: visits}
}

// GetTheme handles GET /api/v1/preferences/:clientId
func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	pref, err := h.service.GetTheme(c.Request.Context(), clientID, c.GetHeader(ColorSchemeHeader))
	if err != nil {
		respondServiceError(c, err, "Failed to load preferences")
		return
	}
	c.JSON(http.StatusOK, pref)
}

// ToggleTheme handles POST /api/v1/preferences/:clientId/toggle. With a
// visitId query parameter the notice is also queued on that visit.
func (h *PreferenceHandler) ToggleTheme(c *gin.Context) {
	clientID, ok := h.clientID(c)
	if !ok {
		return
	}

	var sink notify.Sink
	if visitID := c.Query("visitId"); visitID != "" {
		s, err := h.visits.Notifier(visitID)
		if err != nil {
			respondServiceError(c, err, "Failed to load visit")
			return
		}
		sink = s
	}

	resp, err := h.service.ToggleTheme(c.Request.Context(), clientID, c.GetHeader(ColorSchemeHeader), sink)
	if err != nil {
		respondServiceError(c, err, "Failed to save preferences")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PreferenceHandler) clientID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("clientId"))
	if id == "" || len(id) > maxClientIDLength {
		respondError(c, http.StatusBadRequest, "Invalid client ID", nil)
		return "", false
	}
	return id, true
}
