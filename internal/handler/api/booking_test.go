//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/handler/api"
	resdto "parking-engine/internal/handler/dto/response"
	"parking-engine/internal/handler/middleware"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase"
	"parking-engine/tests/common/builder"
	"parking-engine/tests/common/httptest"
	"parking-engine/tests/common/testutil"
	apimock "parking-engine/tests/mock/api"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockBookings *apimock.MockBookingService
	mockWallets  *apimock.MockWalletService
	handler      *api.BookingHandler

	owner uuid.UUID
	now   time.Time
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBookings = apimock.NewMockBookingService(s.mockCtrl)
	s.mockWallets = apimock.NewMockWalletService(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockBookings, s.mockWallets)

	s.owner = uuid.New()
	s.now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	bookings := s.router.Group("/bookings", middleware.RequireUser())
	bookings.POST("", s.handler.Create)
	bookings.GET("", s.handler.List)
	bookings.POST("/checkin/token", s.handler.CheckInWithToken)
	bookings.GET("/:ticket", s.handler.Get)
	bookings.GET("/:ticket/quote", s.handler.Quote)
	bookings.GET("/:ticket/payments", s.handler.Payments)
	bookings.GET("/:ticket/token", s.handler.IssueToken)
	bookings.POST("/:ticket/checkin", s.handler.CheckIn)
	bookings.POST("/:ticket/checkout", s.handler.CheckOut)
	bookings.POST("/:ticket/cancel", s.handler.Cancel)

	admin := s.router.Group("/admin", middleware.RequireUser(), middleware.RequireAdmin())
	admin.POST("/bookings/:ticket/cancel", s.handler.AdminCancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) ownedBooking() *booking.Booking {
	b, err := builder.NewBookingBuilder(s.now).
		With(func(b *builder.BookingBuilder) { b.UserID = s.owner }).
		BuildDomain()
	s.Require().NoError(err)
	return b
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"
	bb := builder.NewBookingBuilder(s.now).With(func(b *builder.BookingBuilder) { b.UserID = s.owner })
	reqBody := bb.BuildCreateRequestDTO()
	created, err := bb.BuildDomain()
	s.Require().NoError(err)

	s.Run("success: returns 201 Created with the ticket location", func() {
		s.mockBookings.EXPECT().Create(gomock.Any(), usecase.CreateBookingParams{
			UserID:    s.owner,
			VehicleID: bb.VehicleID,
			SlotID:    bb.SlotID,
		}).Return(created, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, httptest.User(s.owner))

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.Ticket(), body.TicketNumber)
		s.Equal("pending", body.Status)
		s.Equal("20.00", body.PrepaidAmount)
		s.NotNil(body.CheckinDeadline)
		httptest.AssertLocation(s.T(), rec, "/api/bookings/"+created.Ticket())
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing field: vehicle_id", mutate: testutil.Field("vehicle_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: slot_id", mutate: testutil.Field("slot_id", nil), expectCode: http.StatusBadRequest},
			{name: "malformed slot_id", mutate: testutil.Field("slot_id", "slot-1"), expectCode: http.StatusBadRequest},
			{name: "nil vehicle_id", mutate: testutil.Field("vehicle_id", uuid.Nil.String()), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, httptest.User(s.owner))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
			})
		}
	})

	s.Run("error: 401 Unauthorized without identity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, httptest.Identity{})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps engine errors to proper statuses", func() {
		testCases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"vehicle not found", errs.Reason(errs.ErrVehicleNotFound, "vehicle %s not found", bb.VehicleID), http.StatusNotFound, "VEHICLE_NOT_FOUND"},
			{"slot taken", errs.Reason(errs.ErrSlotUnavailable, "slot is reserved"), http.StatusConflict, "SLOT_UNAVAILABLE"},
			{"vehicle already parked", errs.ErrDuplicateActiveBooking, http.StatusConflict, "DUPLICATE_ACTIVE_BOOKING"},
			{"truck on a bike slot", errs.ErrVehicleTypeMismatch, http.StatusUnprocessableEntity, "VEHICLE_TYPE_MISMATCH"},
			{"wallet too low", errs.ErrInsufficientFunds, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"},
			{"database down", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockBookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, httptest.User(s.owner))
				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	b := s.ownedBooking()
	url := "/bookings/" + b.Ticket()

	s.Run("success: owner sees the booking", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, httptest.User(s.owner))

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(b.ID().String(), body.ID)
		s.Equal(s.owner.String(), body.UserID)
	})

	s.Run("success: admin sees any booking", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, httptest.Admin(uuid.New()))
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 for another user's booking", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, httptest.User(uuid.New()))
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "BOOKING_NOT_FOUND")
	})

	s.Run("error: 404 for unknown ticket", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), "PK-MISSING").
			Return(nil, errs.Reason(errs.ErrBookingNotFound, "booking PK-MISSING not found")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/PK-MISSING", nil, httptest.User(s.owner))
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "BOOKING_NOT_FOUND")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestList() {
	s.Run("success: lists the caller's bookings", func() {
		b := s.ownedBooking()
		s.mockBookings.EXPECT().ListByUser(gomock.Any(), s.owner).Return([]*booking.Booking{b}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, httptest.User(s.owner))

		var body []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.Equal(b.Ticket(), body[0].TicketNumber)
	})

	s.Run("success: empty list", func() {
		s.mockBookings.EXPECT().ListByUser(gomock.Any(), s.owner).Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, httptest.User(s.owner))

		var body []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body)
	})
}

// ================================================================================
// TestCheckIn
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckIn() {
	b := s.ownedBooking()
	url := "/bookings/" + b.Ticket() + "/checkin"

	s.Run("success: returns the active booking", func() {
		active := b.Clone()
		s.Require().NoError(active.CheckIn(s.now.Add(10 * time.Minute)))
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
		s.mockBookings.EXPECT().CheckIn(gomock.Any(), b.Ticket()).Return(active, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, httptest.User(s.owner))

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("active", body.Status)
		s.NotNil(body.CheckinTime)
	})

	s.Run("error: maps engine errors to proper statuses", func() {
		testCases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"deadline passed", errs.ErrBookingExpired, http.StatusGone, "BOOKING_EXPIRED"},
			{"already active", errs.ErrAlreadyCheckedIn, http.StatusConflict, "ALREADY_CHECKED_IN"},
			{"cancelled", errs.ErrBookingTerminal, http.StatusConflict, "BOOKING_TERMINAL"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
				s.mockBookings.EXPECT().CheckIn(gomock.Any(), b.Ticket()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, httptest.User(s.owner))
				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})

	s.Run("error: stranger cannot check in", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, httptest.User(uuid.New()))
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "BOOKING_NOT_FOUND")
	})
}

// ================================================================================
// TestCheckInWithToken
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckInWithToken() {
	b := s.ownedBooking()
	payload, err := booking.NewCheckinToken(b, "KA01AB1234", "A-101").Encode()
	s.Require().NoError(err)

	s.Run("success: passes the raw payload through", func() {
		s.mockBookings.EXPECT().CheckInWithToken(gomock.Any(), payload).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/checkin/token", payload, httptest.User(s.owner))
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 422 for a rejected token", func() {
		s.mockBookings.EXPECT().CheckInWithToken(gomock.Any(), gomock.Any()).
			Return(nil, errs.Reason(errs.ErrInvalidInput, "token does not match booking")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/checkin/token", []byte(`{"type":"x"}`), httptest.User(s.owner))
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, "INVALID_INPUT")
	})
}

// ================================================================================
// TestIssueToken
// ================================================================================

func (s *BookingHandlerTestSuite) TestIssueToken() {
	b := s.ownedBooking()
	token := booking.NewCheckinToken(b, "KA01AB1234", "A-101")

	s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
	s.mockBookings.EXPECT().IssueCheckinToken(gomock.Any(), b.Ticket()).Return(token, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+b.Ticket()+"/token", nil, httptest.User(s.owner))

	var body resdto.CheckinTokenResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal(token, body.Token)
	parsed, err := booking.ParseCheckinToken([]byte(body.Payload))
	s.Require().NoError(err)
	s.Equal(token, parsed)
}

// ================================================================================
// TestCheckOut
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckOut() {
	b := s.ownedBooking()
	url := "/bookings/" + b.Ticket() + "/checkout"

	s.Run("success: returns the settlement", func() {
		result := &usecase.CheckoutResult{
			Booking: b,
			Charge: pricing.Breakdown{
				BaseRate:      decimal.NewFromInt(20),
				DurationHours: decimal.NewFromInt(2),
				BaseAmount:    decimal.NewFromInt(40),
				TotalAmount:   decimal.NewFromInt(40),
			},
			Charged:        decimal.NewFromInt(20),
			LoyaltyAwarded: 4,
			Balance:        decimal.RequireFromString("55.5"),
		}
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
		s.mockBookings.EXPECT().CheckOut(gomock.Any(), b.Ticket()).Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, httptest.User(s.owner))

		var body resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("40.00", body.Charge.TotalAmount)
		s.Equal("20.00", body.Charged)
		s.Equal("0.00", body.Refunded)
		s.Equal("55.50", body.Balance)
		s.Equal(int64(4), body.LoyaltyAwarded)
	})

	s.Run("error: 402 when the remainder cannot be paid", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
		s.mockBookings.EXPECT().CheckOut(gomock.Any(), b.Ticket()).
			Return(nil, errs.Reason(errs.ErrInsufficientFunds, "balance 1.00 is less than 20.00")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, httptest.User(s.owner))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "balance 1.00 is less than 20.00")
	})

	s.Run("error: 409 when not checked in", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
		s.mockBookings.EXPECT().CheckOut(gomock.Any(), b.Ticket()).Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, httptest.User(s.owner))
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "INVALID_TRANSITION")
	})
}

// ================================================================================
// TestQuoteAndPayments
// ================================================================================

func (s *BookingHandlerTestSuite) TestQuoteAndPayments() {
	b := s.ownedBooking()

	s.Run("quote", func() {
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
		s.mockBookings.EXPECT().Quote(gomock.Any(), b.Ticket()).Return(pricing.Breakdown{
			BaseRate:      decimal.NewFromInt(20),
			DurationHours: decimal.NewFromInt(3),
			BaseAmount:    decimal.NewFromInt(60),
			SurgeAmount:   decimal.NewFromInt(18),
			TotalAmount:   decimal.NewFromInt(78),
			IsPeak:        true,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+b.Ticket()+"/quote", nil, httptest.User(s.owner))

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("78.00", body.TotalAmount)
		s.True(body.IsPeak)
	})

	s.Run("payments", func() {
		p, err := wallet.NewPayment(b.ID(), s.owner, decimal.NewFromInt(20), wallet.PaymentKindPrepayment, s.now)
		s.Require().NoError(err)
		s.mockBookings.EXPECT().Get(gomock.Any(), b.Ticket()).Return(b, nil).Times(1)
		s.mockWallets.EXPECT().Payments(gomock.Any(), b.ID()).Return([]*wallet.Payment{p}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+b.Ticket()+"/payments", nil, httptest.User(s.owner))

		var body []resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.Equal("20.00", body[0].Amount)
		s.Equal(p.TransactionID(), body[0].TransactionID)
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	b := s.ownedBooking()

	s.Run("success: owner cancels as a customer", func() {
		s.mockBookings.EXPECT().Cancel(gomock.Any(), b.Ticket(), usecase.Actor{UserID: s.owner}).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+b.Ticket()+"/cancel", nil, httptest.User(s.owner))
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: admin route cancels with admin rights", func() {
		adminID := uuid.New()
		s.mockBookings.EXPECT().Cancel(gomock.Any(), b.Ticket(), usecase.Actor{UserID: adminID, Admin: true}).Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/bookings/"+b.Ticket()+"/cancel", nil, httptest.Admin(adminID))
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: admin flag on the customer route is ignored", func() {
		adminID := uuid.New()
		s.mockBookings.EXPECT().Cancel(gomock.Any(), b.Ticket(), usecase.Actor{UserID: adminID}).
			Return(nil, errs.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+b.Ticket()+"/cancel", nil, httptest.Admin(adminID))
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "BOOKING_NOT_FOUND")
	})

	s.Run("error: 403 on the admin route for customers", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/bookings/"+b.Ticket()+"/cancel", nil, httptest.User(s.owner))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 409 for an active booking", func() {
		s.mockBookings.EXPECT().Cancel(gomock.Any(), b.Ticket(), gomock.Any()).Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+b.Ticket()+"/cancel", nil, httptest.User(s.owner))
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "INVALID_TRANSITION")
	})
}
