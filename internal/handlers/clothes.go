package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/services"
	"github.com/wardrobify/wardrobify/pkg/response"
)

// ClothingHandler exposes wardrobe CRUD.
type ClothingHandler struct {
	clothes *services.ClothingService
}

func NewClothingHandler(clothes *services.ClothingService) *ClothingHandler {
	return &ClothingHandler{clothes: clothes}
}

type createClothingRequest struct {
	Name         string `json:"name" validate:"required"`
	Type         string `json:"type" validate:"required"`
	ImageAddress string `json:"image_address"`
}

type updateClothingRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	ImageAddress *string `json:"image_address"`
}

// GET /api/clothes
func (h *ClothingHandler) List(c *gin.Context) {
	items, err := h.clothes.ListForUser(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GET /api/clothes/:id
func (h *ClothingHandler) Get(c *gin.Context) {
	item, err := h.clothes.Get(requestContext(c), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// POST /api/clothes
func (h *ClothingHandler) Create(c *gin.Context) {
	var req createClothingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	item, err := h.clothes.Create(requestContext(c), currentUserID(c), services.CreateClothingInput{
		Name:         req.Name,
		Type:         req.Type,
		ImageAddress: req.ImageAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// PUT /api/clothes/:id
func (h *ClothingHandler) Update(c *gin.Context) {
	var req updateClothingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	item, err := h.clothes.Update(requestContext(c), currentUserID(c), c.Param("id"), services.UpdateClothingInput{
		Name:         req.Name,
		Type:         req.Type,
		ImageAddress: req.ImageAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// DELETE /api/clothes/:id
func (h *ClothingHandler) Delete(c *gin.Context) {
	if err := h.clothes.Delete(requestContext(c), currentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
