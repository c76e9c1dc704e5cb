package api

import (
	"io"
	"net/http"

	"parking-engine/internal/domain/booking"
	reqdto "parking-engine/internal/handler/dto/request"
	resdto "parking-engine/internal/handler/dto/response"
	"parking-engine/internal/handler/httperr"
	"parking-engine/internal/handler/middleware"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxTokenBytes = 4 << 10

type BookingHandler struct {
	bookings BookingService
	wallets  WalletService
}

func NewBookingHandler(bookings BookingService, wallets WalletService) *BookingHandler {
	return &BookingHandler{bookings: bookings, wallets: wallets}
}

// @Summary Create a booking
// @Description Reserves the slot with a prepayment, or parks immediately in walk-in mode
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking"
// @Success 201 {object} resdto.BookingResponse
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	b, err := h.bookings.Create(c.Request.Context(), req.ToParams(userID))
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.Header("Location", "/api/bookings/"+b.Ticket())
	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

// @Summary List own bookings
// @Tags bookings
// @Produce json
// @Success 200 {array} resdto.BookingResponse
// @Router /api/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	bs, err := h.bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookings(bs))
}

// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{ticket} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Running price of an active booking
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.QuoteResponse
// @Router /api/bookings/{ticket}/quote [get]
func (h *BookingHandler) Quote(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	breakdown, err := h.bookings.Quote(c.Request.Context(), b.Ticket())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBreakdown(breakdown))
}

// @Summary Payments recorded for a booking
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {array} resdto.PaymentResponse
// @Router /api/bookings/{ticket}/payments [get]
func (h *BookingHandler) Payments(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	ps, err := h.wallets.Payments(c.Request.Context(), b.ID())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPayments(ps))
}

// @Summary Issue the check-in token of a pending booking
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.CheckinTokenResponse
// @Router /api/bookings/{ticket}/token [get]
func (h *BookingHandler) IssueToken(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	token, err := h.bookings.IssueCheckinToken(c.Request.Context(), b.Ticket())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	payload, err := token.Encode()
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.CheckinTokenResponse{Token: token, Payload: string(payload)})
}

// @Summary Check in by ticket
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.BookingResponse
// @Failure 410 {object} httperr.Response
// @Router /api/bookings/{ticket}/checkin [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	b, err := h.bookings.CheckIn(c.Request.Context(), b.Ticket())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Check in with a scanned token
// @Description The body is the token payload exactly as issued
// @Tags bookings
// @Accept json
// @Produce json
// @Success 200 {object} resdto.BookingResponse
// @Router /api/bookings/checkin/token [post]
func (h *BookingHandler) CheckInWithToken(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTokenBytes))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	b, err := h.bookings.CheckInWithToken(c.Request.Context(), payload)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Check out and settle
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 402 {object} httperr.Response
// @Router /api/bookings/{ticket}/checkout [post]
func (h *BookingHandler) CheckOut(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	result, err := h.bookings.CheckOut(c.Request.Context(), b.Ticket())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckout(result))
}

// @Summary Cancel an own pending booking
// @Tags bookings
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.BookingResponse
// @Router /api/bookings/{ticket}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.cancel(c, false)
}

// @Summary Cancel any pending or active booking
// @Tags admin
// @Produce json
// @Param ticket path string true "Ticket number"
// @Success 200 {object} resdto.BookingResponse
// @Router /api/admin/bookings/{ticket}/cancel [post]
func (h *BookingHandler) AdminCancel(c *gin.Context) {
	h.cancel(c, true)
}

func (h *BookingHandler) cancel(c *gin.Context, admin bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	b, err := h.bookings.Cancel(c.Request.Context(), c.Param("ticket"), usecase.Actor{UserID: userID, Admin: admin})
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// owned loads the ticket's booking and hides it from everyone but its owner
// and admins.
func (h *BookingHandler) owned(c *gin.Context) (*booking.Booking, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return nil, false
	}
	ticket := c.Param("ticket")
	b, err := h.bookings.Get(c.Request.Context(), ticket)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return nil, false
	}
	if b.UserID() != userID && !middleware.IsAdmin(c) {
		httperr.AbortWithKind(c, errs.Reason(errs.ErrBookingNotFound, "booking %s not found", ticket))
		return nil, false
	}
	return b, true
}
