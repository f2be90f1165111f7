package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/service-booking-backend/internal/booking"
	"github.com/nekogravitycat/service-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/service-booking-backend/internal/pkg/response"
)

// IdempotencyHeader carries the optional client key for POST /bookings.
const IdempotencyHeader = "Idempotency-Key"

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// List returns bookings filtered by user_id or status.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	filter := booking.Filter{
		UserID: strings.ToLower(req.UserID),
		Status: req.Status,
	}

	results, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(results))
	for i, r := range results {
		items[i] = NewEnrichedResponse(r)
	}

	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := booking.CreateRequest{
		UserID:          strings.ToLower(body.UserID),
		VehicleID:       strings.ToLower(body.VehicleID),
		ServiceIDs:      body.ServiceIDs,
		BookingDate:     body.BookingDate.UTC(),
		AdditionalNotes: body.AdditionalNotes,
		PaymentMethod:   body.PaymentMethod,
		PhoneNumber:     body.PhoneNumber,
		TotalPrice:      body.TotalPrice,
		IdempotencyKey:  strings.TrimSpace(c.GetHeader(IdempotencyHeader)),
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	uri.Normalize()

	r, err := h.service.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEnrichedResponse(r))
}

// Cancel is called by the scheduler when a booking expires.
func (h *Handler) Cancel(c *gin.Context) {
	h.changeStatus(c, h.service.Cancel)
}

// Archive is called by the scheduler for old bookings.
func (h *Handler) Archive(c *gin.Context) {
	h.changeStatus(c, h.service.Archive)
}

func (h *Handler) changeStatus(c *gin.Context, op func(ctx context.Context, id string) (*booking.Booking, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	uri.Normalize()

	b, err := op(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
