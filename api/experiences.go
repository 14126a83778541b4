package api

import (
	"net/http"

	"github.com/0xgasc/flyin-sub000/internal/service/experiences"
	"github.com/gin-gonic/gin"
)

type ExperienceHandler struct {
	service experiences.ExperienceUseCase
}

func NewExperienceHandler(service experiences.ExperienceUseCase) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

func (h *ExperienceHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *ExperienceHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ExperienceHandler) get(c *gin.Context) {
	exp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}
