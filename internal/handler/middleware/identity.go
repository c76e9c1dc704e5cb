package middleware

import (
	"net/http"
	"strings"

	"parking-engine/internal/handler/httperr"
	"parking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is asserted by the gateway in front of the engine.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin = "admin"
)

const (
	ctxUserIDKey  = "user_id"
	ctxIsAdminKey = "is_admin"
)

var (
	errMissingIdentity = errs.New("missing or malformed user identity")
	errAdminRequired   = errs.New("admin role required")
)

// RequireUser rejects requests without a valid X-User-ID.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(HeaderUserID)))
		if err != nil || userID == uuid.Nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxIsAdminKey, strings.EqualFold(c.GetHeader(HeaderUserRole), RoleAdmin))
		c.Next()
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			httperr.AbortWithError(c, http.StatusForbidden, errAdminRequired, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get(ctxIsAdminKey)
	if !exists {
		return false
	}
	admin, ok := v.(bool)
	return ok && admin
}
