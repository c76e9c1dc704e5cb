package api

import (
	"net/http"

	"parking-engine/internal/handler/httperr"
	"parking-engine/internal/handler/middleware"
	"parking-engine/internal/infra/notify"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	sweeper Sweeper
}

func NewAdminHandler(sweeper Sweeper) *AdminHandler {
	return &AdminHandler{sweeper: sweeper}
}

// @Summary Run an expiry sweep now
// @Tags admin
// @Produce json
// @Success 200 {object} usecase.SweepReport
// @Router /api/admin/reaper/sweep [post]
func (h *AdminHandler) Sweep(c *gin.Context) {
	report, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type EventsHandler struct {
	hub *notify.Hub
}

func NewEventsHandler(hub *notify.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// @Summary Stream booking notifications
// @Description Admins receive every user's events, others only their own
// @Tags events
// @Router /ws/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	if middleware.IsAdmin(c) {
		userID = uuid.Nil
	}
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		_ = c.Error(err)
	}
}
