package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/urbanpros/booking-backend/internal/http/response"
	"github.com/urbanpros/booking-backend/internal/pkg/ctxutil"
	"github.com/urbanpros/booking-backend/internal/services"
)

type BookingHandler struct {
	bookings services.BookingService
}

func NewBookingHandler(bookings services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// requesterToken prefers the authenticated session identity over whatever
// identifier the body carried. Unauthenticated callers fall back to the
// body token, which may be a phone, prefixed phone, or customer id.
func requesterToken(c *gin.Context, bodyToken string) string {
	if id := ctxutil.CustomerID(c.Request.Context()); id != uuid.Nil {
		return id.String()
	}
	return bodyToken
}

func (bh *BookingHandler) Create(c *gin.Context) {
	var req struct {
		Customer    string    `json:"customer"`
		Name        string    `json:"name"`
		Email       string    `json:"email"`
		Service     string    `json:"service"`
		ScheduledAt time.Time `json:"scheduled_at"`
		Notes       string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	b, err := bh.bookings.Create(c.Request.Context(),
		requesterToken(c, req.Customer),
		services.ResolveSeed{Name: req.Name, Email: req.Email},
		services.BookingInput{
			Service:     req.Service,
			ScheduledAt: req.ScheduledAt,
			Notes:       req.Notes,
		})
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, b)
}

func (bh *BookingHandler) List(c *gin.Context) {
	out, err := bh.bookings.ListForToken(c.Request.Context(), requesterToken(c, c.Query("customer")))
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bookings": out})
}

func (bh *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Customer string `json:"customer"`
	}
	// Body is optional; an authenticated session carries the requester.
	_ = c.ShouldBindJSON(&req)

	b, err := bh.bookings.Cancel(c.Request.Context(), bookingID, requesterToken(c, req.Customer))
	if err != nil {
		response.RespondEngineError(c, err)
		return
	}
	response.RespondOK(c, b)
}
