package httperr

import (
	"net/http"

	"parking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, "", detail)
}

// AbortWithKind answers with the status and code of err's kind. Business
// errors expose their reason; anything else is reported as an internal error.
func AbortWithKind(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	if !kind.IsBusiness() {
		abort(c, http.StatusInternalServerError, err, "Internal server error", errs.KindInternal.String(), nil)
		return
	}
	abort(c, StatusOf(kind), err, err.Error(), kind.String(), nil)
}

func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindVehicleNotFound, errs.KindSlotNotFound, errs.KindBookingNotFound, errs.KindWalletNotFound:
		return http.StatusNotFound
	case errs.KindSlotUnavailable, errs.KindDuplicateActiveBooking, errs.KindAlreadyCheckedIn,
		errs.KindBookingTerminal, errs.KindInvalidTransition, errs.KindVehicleAlreadyRegistered:
		return http.StatusConflict
	case errs.KindBookingExpired:
		return http.StatusGone
	case errs.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case errs.KindVehicleTypeMismatch, errs.KindInvalidInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, status int, err error, msg, code string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
