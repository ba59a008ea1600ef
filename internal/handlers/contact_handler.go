package handlers

import (
	"net/http"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles the contact panel forms
type ContactHandler struct {
	contact    services.ContactServiceInterface
	newsletter services.NewsletterServiceInterface
}

func NewContactHandler(contact services.ContactServiceInterface, newsletter services.NewsletterServiceInterface) *ContactHandler {
	return &ContactHandler{contact: contact, newsletter: newsletter}
}

// SendMessage handles POST /api/v1/contact-messages
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req models.ContactMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.contact.SubmitContactMessage(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Internal server error")
		return
	}

	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Subscribe handles POST /api/v1/newsletter
func (h *ContactHandler) Subscribe(c *gin.Context) {
	var req models.NewsletterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.newsletter.Subscribe(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to subscribe")
		return
	}

	c.JSON(http.StatusOK, resp)
}
