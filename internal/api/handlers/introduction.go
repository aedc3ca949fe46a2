package handlers

import (
	"net/http"

	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/models"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"

	"github.com/gin-gonic/gin"
)

type IntroductionHandler struct {
	intros     service.IntroductionService
	dispatcher *websocket.Dispatcher
}

func NewIntroductionHandler(intros service.IntroductionService, dispatcher *websocket.Dispatcher) *IntroductionHandler {
	return &IntroductionHandler{intros: intros, dispatcher: dispatcher}
}

func (h *IntroductionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/introduction", h.Create)
	r.GET("/introductions", h.List)
}

// Create godoc
// @Summary      Post an introduction to the community feed
// @Tags         introductions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CreateIntroductionRequest true "Introduction content"
// @Success      201 {object} models.Introduction
// @Failure      400 {object} map[string]string
// @Router       /api/introduction [post]
func (h *IntroductionHandler) Create(c *gin.Context) {
	var req models.CreateIntroductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intro, err := h.intros.Create(c.Request.Context(), middleware.UserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusCreated, intro)
}

// List godoc
// @Summary      List the most recent introductions
// @Tags         introductions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Introduction
// @Router       /api/introductions [get]
func (h *IntroductionHandler) List(c *gin.Context) {
	intros, err := h.intros.ListRecent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if intros == nil {
		intros = []models.Introduction{}
	}
	c.JSON(http.StatusOK, intros)
}
