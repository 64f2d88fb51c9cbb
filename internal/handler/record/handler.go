package record

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/handler"
	"github.com/carebooker/carebooker-api/internal/middleware"
	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/record"
)

type Handler struct {
	service *record.Service
}

func NewHandler(service *record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), claims, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	rec, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

// List scopes records to the caller's own profile: doctors see records they
// authored, patients see records written about them.
func (h *Handler) List(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	var (
		records []*model.MedicalRecord
		err     error
	)
	switch claims.Role {
	case model.RoleDoctor:
		records, err = h.service.ListForDoctor(c.Request.Context(), claims.ProfileID)
	case model.RolePatient:
		records, err = h.service.ListForPatient(c.Request.Context(), claims.ProfileID)
	default:
		if pid := c.Query("patient_id"); pid != "" {
			patientID, parseErr := uuid.Parse(pid)
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
				return
			}
			records, err = h.service.ListForPatient(c.Request.Context(), patientID)
		} else {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("patient_id is required"))
			return
		}
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) Delete(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
