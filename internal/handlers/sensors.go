package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/services"
	"github.com/wardrobify/wardrobify/pkg/response"
)

// SensorHandler exposes sensor CRUD plus reading history for owned sensors.
type SensorHandler struct {
	sensors  *services.SensorService
	readings *services.ReadingService
}

func NewSensorHandler(sensors *services.SensorService, readings *services.ReadingService) *SensorHandler {
	return &SensorHandler{sensors: sensors, readings: readings}
}

type createSensorRequest struct {
	Type    string `json:"type" validate:"required"`
	Units   string `json:"units" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type updateSensorRequest struct {
	Type    *string `json:"type"`
	Units   *string `json:"units"`
	Address *string `json:"address"`
}

// GET /api/sensors
func (h *SensorHandler) List(c *gin.Context) {
	sensors, err := h.sensors.ListForUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sensors)
}

// GET /api/sensors/:id
func (h *SensorHandler) Get(c *gin.Context) {
	sensor, err := h.sensors.Get(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sensor)
}

// POST /api/sensors
func (h *SensorHandler) Create(c *gin.Context) {
	var req createSensorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sensor, err := h.sensors.Create(requestContext(c), currentUserID(c), services.CreateSensorInput{
		Type:    req.Type,
		Units:   req.Units,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sensor)
}

// PUT /api/sensors/:id
func (h *SensorHandler) Update(c *gin.Context) {
	var req updateSensorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sensor, err := h.sensors.Update(requestContext(c), currentUserID(c), c.Param("id"), services.UpdateSensorInput{
		Type:    req.Type,
		Units:   req.Units,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, sensor)
}

// DELETE /api/sensors/:id
func (h *SensorHandler) Delete(c *gin.Context) {
	if err := h.sensors.Delete(requestContext(c), currentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/sensors/:id/data
func (h *SensorHandler) RecentData(c *gin.Context) {
	ctx := requestContext(c)

	sensor, err := h.sensors.Get(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	readings, err := h.readings.RecentForSensor(ctx, sensor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, readings)
}
