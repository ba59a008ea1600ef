package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/internal/cache"
	"github.com/clinicconnect/clinicconnect-api/internal/catalog"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/clinicconnect/clinicconnect-api/internal/slots"
	"github.com/clinicconnect/clinicconnect-api/internal/validation"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Initialize(logger.Config{Level: "error", Environment: "development"}); err != nil {
		panic(err)
	}
}

type noopCaller struct{}

func (noopCaller) CallAsync(context.Context, string, string, any) {}

type testAPI struct {
	router *gin.Engine
	visits *services.VisitService
}

// newTestAPI wires the handlers over the embedded catalog with every slot
// available and an immediate booking submission
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	c := cache.NewCatalogCache(catalog.NewSource(""), 600)
	require.NoError(t, c.Initialize(context.Background()))
	t.Cleanup(c.Close)
	repo := repository.NewCatalogRepository(c)

	cfg := &config.Config{
		Booking: config.BookingConfig{DaysAhead: 7},
		Session: config.SessionConfig{TTLMinutes: 30, MaxNotifications: 20},
	}
	gen := slots.NewGenerator(1, 1, time.UTC)

	catalogService := services.NewCatalogService(repo, gen)
	visitService := services.NewVisitService(cfg, repo, gen, validation.NewContactValidator(), noopCaller{})
	t.Cleanup(visitService.Close)
	contactService := services.NewContactService(cfg, noopCaller{})
	newsletterService := services.NewNewsletterService(repository.NewMemorySubscriberStore())
	preferenceService := services.NewPreferenceService(repository.NewMemoryPreferenceStore(), false)

	catalogHandler := NewCatalogHandler(catalogService)
	visitHandler := NewVisitHandler(visitService)
	contactHandler := NewContactHandler(contactService, newsletterService)
	preferenceHandler := NewPreferenceHandler(preferenceService, visitService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/clinic", catalogHandler.GetClinic)
	v1.GET("/providers", catalogHandler.ListProviders)
	v1.GET("/providers/:id", catalogHandler.GetProvider)
	v1.GET("/services", catalogHandler.ListServices)
	v1.GET("/services/:id", catalogHandler.GetService)
	v1.GET("/articles", catalogHandler.ListArticles)
	v1.GET("/articles/:slug", catalogHandler.GetArticle)
	v1.GET("/slots", catalogHandler.GetSlots)

	v1.POST("/visits", visitHandler.CreateVisit)
	v1.GET("/visits/:visitId", visitHandler.GetVisit)
	v1.DELETE("/visits/:visitId", visitHandler.EndVisit)
	v1.POST("/visits/:visitId/panel", visitHandler.SwitchPanel)
	v1.POST("/visits/:visitId/book", visitHandler.Book)
	v1.POST("/visits/:visitId/articles/:articleId/toggle", visitHandler.ToggleArticle)
	v1.GET("/visits/:visitId/notifications", visitHandler.DrainNotifications)
	v1.GET("/visits/:visitId/wizard", visitHandler.GetWizard)
	v1.POST("/visits/:visitId/wizard/date", visitHandler.SelectDate)
	v1.POST("/visits/:visitId/wizard/slot", visitHandler.SelectSlot)
	v1.POST("/visits/:visitId/wizard/provider", visitHandler.SelectProvider)
	v1.POST("/visits/:visitId/wizard/service", visitHandler.SelectService)
	v1.PATCH("/visits/:visitId/wizard/contact", visitHandler.UpdateContact)
	v1.POST("/visits/:visitId/wizard/next", visitHandler.Next)
	v1.POST("/visits/:visitId/wizard/back", visitHandler.Back)
	v1.POST("/visits/:visitId/wizard/submit", visitHandler.Submit)
	v1.POST("/visits/:visitId/wizard/reset", visitHandler.Reset)

	v1.POST("/contact-messages", contactHandler.SendMessage)
	v1.POST("/newsletter", contactHandler.Subscribe)
	v1.GET("/preferences/:clientId", preferenceHandler.GetTheme)
	v1.POST("/preferences/:clientId/toggle", preferenceHandler.ToggleTheme)

	return &testAPI{router: router, visits: visitService}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// createVisit starts a visit and returns its ID
func (a *testAPI) createVisit(t *testing.T) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/visits", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.VisitResponse](t, w).VisitID
}
