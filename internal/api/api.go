package api

import (
	"context"
	"io"
	"net/http"

	"fuel-tracker/internal/models"
	"fuel-tracker/internal/services/fuelfeed"

	"github.com/gin-gonic/gin"
)

// PriceService is the pipeline surface the handlers need.
type PriceService interface {
	Refresh(ctx context.Context, observations []models.PriceObservation) (*models.PriceDocument, error)
	Current(ctx context.Context) *models.PriceDocument
}

// FeedClient fetches the upstream feed when a refresh request carries no body.
type FeedClient interface {
	FetchPrices(ctx context.Context) ([]models.PriceObservation, error)
}

type APIHandler struct {
	svc        PriceService
	feed       FeedClient
	refreshKey string
	hub        *Hub
}

func SetupRoutes(r *gin.RouterGroup, svc PriceService, feed FeedClient, refreshKey string) *APIHandler {
	handler := &APIHandler{
		svc:        svc,
		feed:       feed,
		refreshKey: refreshKey,
		hub:        NewHub(),
	}

	prices := r.Group("/prices")
	{
		prices.GET("", handler.GetPrices)
		prices.POST("/refresh", handler.RefreshPrices)
		prices.GET("/export", handler.ExportHistory)
	}

	return handler
}

// GetPrices serves the current price document. It never returns an error
// status: when the store is empty or unreachable the fallback document goes
// out instead, flagged so clients can tell.
func (h *APIHandler) GetPrices(c *gin.Context) {
	doc := h.svc.Current(c.Request.Context())

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, doc)
}

// RefreshPrices runs the refresh pipeline. The trigger must present the
// configured refresh key. A JSON body is treated as the raw upstream payload;
// with no body the handler fetches the feed itself.
func (h *APIHandler) RefreshPrices(c *gin.Context) {
	if h.refreshKey != "" && c.GetHeader("X-Refresh-Key") != h.refreshKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh key"})
		return
	}

	observations, err := h.loadObservations(c)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.svc.Refresh(c.Request.Context(), observations)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.hub.Broadcast(doc)
	c.JSON(http.StatusOK, doc)
}

func (h *APIHandler) loadObservations(c *gin.Context) ([]models.PriceObservation, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err == nil && len(body) > 0 {
		return fuelfeed.ParseObservations(body)
	}
	return h.feed.FetchPrices(c.Request.Context())
}
