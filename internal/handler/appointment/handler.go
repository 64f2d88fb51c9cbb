package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/handler"
	"github.com/carebooker/carebooker-api/internal/middleware"
	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/appointment"
	"github.com/carebooker/carebooker-api/internal/service/booking"
)

type Handler struct {
	bookingService     *booking.Service
	appointmentService *appointment.Service
}

func NewHandler(bookingService *booking.Service, appointmentService *appointment.Service) *Handler {
	return &Handler{
		bookingService:     bookingService,
		appointmentService: appointmentService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/slots", h.ListSlots)
	r.GET("/doctors/search", h.SearchDoctors)
	r.POST("", h.Book)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.POST("/:id/accept", h.Accept)
	r.POST("/:id/cancel", h.Cancel)
	r.DELETE("/:id", h.Delete)
}

// ListSlots returns the fixed half-hour booking grid.
func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking.Slots()))
}

// SearchDoctors lists available doctors for a specialization, date and
// time. All three criteria are required.
func (h *Handler) SearchDoctors(c *gin.Context) {
	var req model.SearchDoctorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctors, err := h.bookingService.SearchDoctors(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) Book(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	booked, err := h.bookingService.Book(c.Request.Context(), claims.ProfileID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(booked))
}

// List scopes results to the caller: patients and doctors see their own
// appointments, admins see everything. The scope query parameter selects
// past or upcoming.
func (h *Handler) List(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	scope := appointment.ListScope(c.DefaultQuery("scope", string(appointment.ScopeAll)))

	var (
		appointments []*model.Appointment
		err          error
	)
	switch claims.Role {
	case model.RolePatient:
		appointments, err = h.appointmentService.ListForPatient(c.Request.Context(), claims.ProfileID, scope)
	case model.RoleDoctor:
		appointments, err = h.appointmentService.ListForDoctor(c.Request.Context(), claims.ProfileID, scope)
	default:
		filters := &model.AppointmentFilters{}
		if status := c.Query("status"); status != "" {
			filters.Status = model.AppointmentStatus(status)
		}
		appointments, err = h.appointmentService.ListAll(c.Request.Context(), filters)
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Get(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appt, err := h.appointmentService.Get(c.Request.Context(), claims, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) Accept(c *gin.Context) {
	h.transition(c, h.appointmentService.Accept)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.appointmentService.Cancel)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Appointment, error)) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appt, err := fn(c.Request.Context(), claims, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) Delete(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.appointmentService.Delete(c.Request.Context(), claims, id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
