//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/vehicle"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/handler/api"
	resdto "parking-engine/internal/handler/dto/response"
	"parking-engine/internal/handler/middleware"
	"parking-engine/internal/pkg/errs"
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

type AccountHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockVehicles *apimock.MockVehicleService
	mockWallets  *apimock.MockWalletService
	user         uuid.UUID
}

func (s *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockVehicles = apimock.NewMockVehicleService(s.mockCtrl)
	s.mockWallets = apimock.NewMockWalletService(s.mockCtrl)
	s.user = uuid.New()

	vehicles := api.NewVehicleHandler(s.mockVehicles)
	wallets := api.NewWalletHandler(s.mockWallets)

	g := s.router.Group("", middleware.RequireUser())
	g.POST("/vehicles", vehicles.Register)
	g.GET("/vehicles", vehicles.List)
	g.GET("/wallet", wallets.Balance)
	g.POST("/wallet/topup", wallets.TopUp)
}

func (s *AccountHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAccountHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}

// ================================================================================
// TestRegisterVehicle
// ================================================================================

func (s *AccountHandlerTestSuite) TestRegisterVehicle() {
	vb := builder.NewVehicleBuilder().With(func(b *builder.VehicleBuilder) {
		b.UserID = s.user
		b.Plate = "ka-01 ab 1234"
	})
	reqBody := vb.BuildRegisterRequestDTO()
	registered, err := vb.BuildDomain()
	s.Require().NoError(err)

	s.Run("success: returns 201 Created", func() {
		s.mockVehicles.EXPECT().Register(gomock.Any(), s.user, slot.VehicleTypeCar, "ka-01 ab 1234").Return(registered, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/vehicles", reqBody, httptest.User(s.user))

		var body resdto.VehicleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("KA01AB1234", body.Plate)
		s.Equal("car", body.VehicleType)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing field: vehicle_type", mutate: testutil.Field("vehicle_type", nil), expectCode: http.StatusBadRequest},
			{name: "unknown vehicle_type", mutate: testutil.Field("vehicle_type", "bus"), expectCode: http.StatusBadRequest},
			{name: "missing field: plate", mutate: testutil.Field("plate", nil), expectCode: http.StatusBadRequest},
			{name: "plate too long (21 chars)", mutate: testutil.Field("plate", strings.Repeat("A", 21)), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/vehicles", requestMap, httptest.User(s.user))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
			})
		}
	})

	s.Run("error: 409 for a plate registered elsewhere", func() {
		s.mockVehicles.EXPECT().Register(gomock.Any(), s.user, gomock.Any(), gomock.Any()).
			Return(nil, errs.Reason(errs.ErrVehicleAlreadyRegistered, "plate KA01AB1234 already registered")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/vehicles", reqBody, httptest.User(s.user))
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "VEHICLE_ALREADY_REGISTERED")
	})
}

func (s *AccountHandlerTestSuite) TestListVehicles() {
	v := vehicle.ReconstructVehicle(uuid.New(), s.user, slot.VehicleTypeBike, "MH12XY0001", time.Now())
	s.mockVehicles.EXPECT().List(gomock.Any(), s.user).Return([]*vehicle.Vehicle{v}, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/vehicles", nil, httptest.User(s.user))

	var body []resdto.VehicleResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().Len(body, 1)
	s.Equal(v.ID().String(), body[0].ID)
	s.Equal("bike", body[0].VehicleType)
}

// ================================================================================
// TestWallet
// ================================================================================

func (s *AccountHandlerTestSuite) TestBalance() {
	s.Run("success: returns balance and points", func() {
		acct := wallet.ReconstructAccount(s.user, decimal.RequireFromString("12.5"), 7, time.Now(), time.Now())
		s.mockWallets.EXPECT().Balance(gomock.Any(), s.user).Return(acct, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet", nil, httptest.User(s.user))

		var body resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("12.50", body.Balance)
		s.Equal(int64(7), body.LoyaltyPoints)
	})

	s.Run("error: 404 before the first top-up", func() {
		s.mockWallets.EXPECT().Balance(gomock.Any(), s.user).Return(nil, errs.ErrWalletNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet", nil, httptest.User(s.user))
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "WALLET_NOT_FOUND")
	})
}

func (s *AccountHandlerTestSuite) TestTopUp() {
	s.Run("success: amount is passed as an exact decimal", func() {
		acct := wallet.ReconstructAccount(s.user, decimal.RequireFromString("100.10"), 0, time.Now(), time.Now())
		s.mockWallets.EXPECT().TopUp(gomock.Any(), s.user, gomock.Cond(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("100.10"))
		})).Return(acct, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/wallet/topup", map[string]any{"amount": "100.10"}, httptest.User(s.user))

		var body resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("100.10", body.Balance)
	})

	s.Run("error: 422 for a non-numeric amount", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/wallet/topup", map[string]any{"amount": "ten"}, httptest.User(s.user))
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, "INVALID_INPUT")
	})

	s.Run("error: 422 for a non-positive amount", func() {
		s.mockWallets.EXPECT().TopUp(gomock.Any(), s.user, gomock.Any()).
			Return(nil, errs.Reason(errs.ErrInvalidInput, "top-up amount must be positive")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/wallet/topup", map[string]any{"amount": "-5"}, httptest.User(s.user))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "top-up amount must be positive")
	})

	s.Run("error: 400 without amount", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/wallet/topup", map[string]any{}, httptest.User(s.user))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
