package bill

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/handler"
	"github.com/carebooker/carebooker-api/internal/middleware"
	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/bill"
)

type Handler struct {
	service *bill.Service
}

func NewHandler(service *bill.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Generate)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.DELETE("/:id", h.Delete)
}

func (h *Handler) Generate(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	var req model.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	generated, err := h.service.Generate(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(generated))
}

func (h *Handler) Get(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid bill ID"))
		return
	}

	b, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(b))
}

func (h *Handler) List(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	bills, err := h.service.List(c.Request.Context(), claims)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bills))
}

func (h *Handler) Delete(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid bill ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
