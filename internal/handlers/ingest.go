package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/services"
	appErrors "github.com/wardrobify/wardrobify/pkg/errors"
	"github.com/wardrobify/wardrobify/pkg/metrics"
	"github.com/wardrobify/wardrobify/pkg/response"
)

// IngestHandler accepts machine-submitted readings authenticated by the
// shared key, never by sessions.
type IngestHandler struct {
	readings *services.ReadingService
	apiKey   string
}

func NewIngestHandler(readings *services.ReadingService, apiKey string) *IngestHandler {
	return &IngestHandler{readings: readings, apiKey: apiKey}
}

type ingestRequest struct {
	Value   *float64 `json:"value" validate:"required"`
	Type    string   `json:"type" validate:"required"`
	Address string   `json:"address" validate:"required"`
	APIKey  string   `json:"api_key" validate:"required"`
}

// POST /api/data
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		metrics.RejectedIngests.Inc()
		response.Error(c, appErrors.ErrInvalidAPIKey)
		return
	}

	reading, err := h.readings.Append(requestContext(c), services.AppendReadingInput{
		Address: req.Address,
		Type:    req.Type,
		Value:   *req.Value,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.IngestedReadings.Inc()
	response.Success(c, http.StatusOK, reading)
}
