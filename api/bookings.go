package api

import (
	"net/http"
	"time"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/pricing"
	"github.com/0xgasc/flyin-sub000/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/quote", h.quote)
	router.GET("/locations", h.locations)
	router.GET("/:id", h.get)
	router.POST("/:id/approve", h.approve)
	router.POST("/:id/revision", h.requestRevision)
	router.POST("/:id/revision/accept", h.acceptRevision)
	router.POST("/:id/assign", h.assign)
	router.POST("/:id/pay", h.pay)
	router.POST("/:id/complete", h.complete)
	router.POST("/:id/cancel", h.cancel)
	router.DELETE("/:id", h.remove)
}

type bookingResponse struct {
	ID                string                    `json:"id"`
	UserID            string                    `json:"user_id"`
	Type              string                    `json:"type"`
	Transport         *domain.TransportDetails  `json:"transport,omitempty"`
	Experience        *domain.ExperienceDetails `json:"experience,omitempty"`
	ScheduledDate     string                    `json:"scheduled_date"`
	ScheduledTime     string                    `json:"scheduled_time"`
	Status            string                    `json:"status"`
	PaymentStatus     string                    `json:"payment_status"`
	TotalPrice        int64                     `json:"total_price"`
	PilotID           string                    `json:"pilot_id,omitempty"`
	HelicopterID      string                    `json:"helicopter_id,omitempty"`
	RevisionRequested bool                      `json:"revision_requested"`
	RevisionNotes     string                    `json:"revision_notes,omitempty"`
	CreatedAt         string                    `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                b.ID,
		UserID:            b.UserID,
		Type:              string(b.Type),
		Transport:         b.Transport,
		Experience:        b.Experience,
		ScheduledDate:     b.ScheduledDate,
		ScheduledTime:     b.ScheduledTime,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		TotalPrice:        b.TotalPrice,
		PilotID:           b.PilotID,
		HelicopterID:      b.HelicopterID,
		RevisionRequested: b.RevisionRequested,
		RevisionNotes:     b.RevisionNotes,
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) quote(c *gin.Context) {
	var req booking.QuoteInput
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	breakdown, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *BookingHandler) locations(c *gin.Context) {
	c.JSON(http.StatusOK, pricing.Locations())
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) approve(c *gin.Context) {
	updated, err := h.service.ApproveBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) requestRevision(c *gin.Context) {
	var req booking.RevisionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.RequestRevision(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) acceptRevision(c *gin.Context) {
	updated, err := h.service.AcceptRevision(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

type assignRequest struct {
	PilotID      string `json:"pilot_id"`
	HelicopterID string `json:"helicopter_id"`
}

func (h *BookingHandler) assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.AssignCrew(c.Request.Context(), c.Param("id"), req.PilotID, req.HelicopterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

type payRequest struct {
	Method    domain.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
}

func (h *BookingHandler) pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.PayBooking(c.Request.Context(), c.Param("id"), req.Method, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) complete(c *gin.Context) {
	updated, err := h.service.MarkCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	updated, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) remove(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
