package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/gin-gonic/gin"
)

// VisitHandler exposes the page shell and booking wizard of a visit
type VisitHandler struct {
	service services.VisitServiceInterface
}

func NewVisitHandler(service services.VisitServiceInterface) *VisitHandler {
	return &VisitHandler{service: service}
}

// CreateVisit handles POST /api/v1/visits
func (h *VisitHandler) CreateVisit(c *gin.Context) {
	resp, err := h.service.CreateVisit(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to start visit")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetVisit handles GET /api/v1/visits/:visitId
func (h *VisitHandler) GetVisit(c *gin.Context) {
	resp, err := h.service.GetVisit(c.Request.Context(), c.Param("visitId"))
	if err != nil {
		respondServiceError(c, err, "Failed to render visit")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EndVisit handles DELETE /api/v1/visits/:visitId
func (h *VisitHandler) EndVisit(c *gin.Context) {
	if err := h.service.EndVisit(c.Request.Context(), c.Param("visitId")); err != nil {
		respondServiceError(c, err, "Failed to end visit")
		return
	}
	c.Status(http.StatusNoContent)
}

// SwitchPanel handles POST /api/v1/visits/:visitId/panel
func (h *VisitHandler) SwitchPanel(c *gin.Context) {
	var req models.PanelRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SwitchPanel(c.Request.Context(), c.Param("visitId"), req.Panel)
	if err != nil {
		respondServiceError(c, err, "Failed to switch panel")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Book handles POST /api/v1/visits/:visitId/book
func (h *VisitHandler) Book(c *gin.Context) {
	var req models.BookRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Book(c.Request.Context(), c.Param("visitId"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to start booking")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleArticle handles POST /api/v1/visits/:visitId/articles/:articleId/toggle
func (h *VisitHandler) ToggleArticle(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("articleId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid article ID", err)
		return
	}

	resp, err := h.service.ToggleArticle(c.Request.Context(), c.Param("visitId"), articleID)
	if err != nil {
		respondServiceError(c, err, "Failed to toggle article")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DrainNotifications handles GET /api/v1/visits/:visitId/notifications
func (h *VisitHandler) DrainNotifications(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	resp, err := h.service.DrainNotifications(c.Request.Context(), c.Param("visitId"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetWizard handles GET /api/v1/visits/:visitId/wizard
func (h *VisitHandler) GetWizard(c *gin.Context) {
	h.wizardAction(c, h.service.GetWizard)
}

// SelectDate handles POST /api/v1/visits/:visitId/wizard/date
func (h *VisitHandler) SelectDate(c *gin.Context) {
	var req models.SelectDateRequest
	if !bindJSON(c, &req) {
		return
	}
	h.wizardAction(c, func(ctx context.Context, visitID string) (*services.WizardResponse, error) {
		return h.service.SelectDate(ctx, visitID, &req)
	})
}

// SelectSlot handles POST /api/v1/visits/:visitId/wizard/slot
func (h *VisitHandler) SelectSlot(c *gin.Context) {
	var req models.SelectSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	h.wizardAction(c, func(ctx context.Context, visitID string) (*services.WizardResponse, error) {
		return h.service.SelectSlot(ctx, visitID, &req)
	})
}

// SelectProvider handles POST /api/v1/visits/:visitId/wizard/provider
func (h *VisitHandler) SelectProvider(c *gin.Context) {
	var req models.SelectProviderRequest
	if !bindJSON(c, &req) {
		return
	}
	h.wizardAction(c, func(ctx context.Context, visitID string) (*services.WizardResponse, error) {
		return h.service.SelectProvider(ctx, visitID, &req)
	})
}

// SelectService handles POST /api/v1/visits/:visitId/wizard/service
func (h *VisitHandler) SelectService(c *gin.Context) {
	var req models.SelectServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	h.wizardAction(c, func(ctx context.Context, visitID string) (*services.WizardResponse, error) {
		return h.service.SelectService(ctx, visitID, &req)
	})
}

// UpdateContact handles PATCH /api/v1/visits/:visitId/wizard/contact
func (h *VisitHandler) UpdateContact(c *gin.Context) {
	var req models.UpdateContactRequest
	if !bindJSON(c, &req) {
		return
	}
	h.wizardAction(c, func(ctx context.Context, visitID string) (*services.WizardResponse, error) {
		return h.service.UpdateContact(ctx, visitID, &req)
	})
}

func (h *VisitHandler) Next(c *gin.Context) { h.wizardAction(c, h.service.Next) }

func (h *VisitHandler) Back(c *gin.Context) { h.wizardAction(c, h.service.Back) }

// Submit answers 202: the confirmation shows up on the wizard after the delay
func (h *VisitHandler) Submit(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), c.Param("visitId"))
	if err != nil {
		respondServiceError(c, err, "Failed to submit booking")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *VisitHandler) Reset(c *gin.Context) { h.wizardAction(c, h.service.Reset) }

func (h *VisitHandler) wizardAction(c *gin.Context, action func(ctx context.Context, visitID string) (*services.WizardResponse, error)) {
	resp, err := action(c.Request.Context(), c.Param("visitId"))
	if err != nil {
		respondServiceError(c, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, resp)
}
