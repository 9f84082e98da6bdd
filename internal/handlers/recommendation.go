package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/services"
	"github.com/wardrobify/wardrobify/pkg/response"
)

// RecommendationHandler serves AI outfit suggestions.
type RecommendationHandler struct {
	users   *services.UserService
	clothes *services.ClothingService
	rec     *services.RecommendationService
}

func NewRecommendationHandler(users *services.UserService, clothes *services.ClothingService, rec *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{users: users, clothes: clothes, rec: rec}
}

// GET /api/ai-wardrobe-recommendation
//
// The recommendation payload is returned verbatim, outside the usual
// envelope: clients render whatever the completion service produced, and
// downstream failures degrade to the fixed fallback payload rather than an
// error status.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	ctx := requestContext(c)

	user, err := h.users.GetByID(ctx, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	wardrobe, err := h.clothes.ListForUser(ctx, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.rec.Recommend(ctx, user, wardrobe))
}
