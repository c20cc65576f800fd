package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/menu"
)

type MenuHandler struct {
	service menu.MenuUseCase
}

func NewMenuHandler(service menu.MenuUseCase) *MenuHandler {
	return &MenuHandler{service: service}
}

func (h *MenuHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *MenuHandler) list(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}
