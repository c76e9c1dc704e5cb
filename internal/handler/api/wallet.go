package api

import (
	"net/http"

	reqdto "parking-engine/internal/handler/dto/request"
	resdto "parking-engine/internal/handler/dto/response"
	"parking-engine/internal/handler/httperr"
	"parking-engine/internal/handler/middleware"
	"parking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errNoIdentity = errs.New("no user identity in context")

type WalletHandler struct {
	wallets WalletService
}

func NewWalletHandler(wallets WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// @Summary Wallet balance
// @Tags wallet
// @Produce json
// @Success 200 {object} resdto.WalletResponse
// @Failure 404 {object} httperr.Response
// @Router /api/wallet [get]
func (h *WalletHandler) Balance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	acct, err := h.wallets.Balance(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAccount(acct))
}

// @Summary Top up the wallet
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body reqdto.TopUpRequest true "Amount"
// @Success 200 {object} resdto.WalletResponse
// @Failure 422 {object} httperr.Response
// @Router /api/wallet/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	var req reqdto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	amount, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	acct, err := h.wallets.TopUp(c.Request.Context(), userID, amount)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAccount(acct))
}
