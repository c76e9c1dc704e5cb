package api

import (
	"net/http"

	"parking-engine/internal/domain/slot"
	reqdto "parking-engine/internal/handler/dto/request"
	resdto "parking-engine/internal/handler/dto/response"
	"parking-engine/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slots  SlotService
	layout slot.Layout
}

// NewSlotHandler seeds from layout when an admin initializes the structure.
func NewSlotHandler(slots SlotService, layout slot.Layout) *SlotHandler {
	return &SlotHandler{slots: slots, layout: layout}
}

// @Summary Search available slots
// @Tags slots
// @Produce json
// @Param vehicle_type query string false "car, bike or truck"
// @Param slot_type query string false "regular, covered or ev_charging"
// @Param floor query int false "Floor number"
// @Success 200 {array} resdto.SlotResponse
// @Router /api/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	var q reqdto.SlotSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	slots, err := h.slots.FindAvailable(c.Request.Context(), q.ToQuery())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlots(slots))
}

// @Summary Slot occupancy statistics
// @Tags slots
// @Produce json
// @Success 200 {object} resdto.SlotStatsResponse
// @Router /api/slots/stats [get]
func (h *SlotHandler) Stats(c *gin.Context) {
	st, err := h.slots.Stats(c.Request.Context())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotStats(st))
}

// @Summary Recommend a slot
// @Tags slots
// @Produce json
// @Param vehicle_type query string true "car, bike or truck"
// @Param preference query string false "covered, ev_charging or cheapest"
// @Success 200 {object} resdto.SlotResponse
// @Failure 409 {object} httperr.Response
// @Router /api/slots/recommend [get]
func (h *SlotHandler) Recommend(c *gin.Context) {
	var q reqdto.RecommendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	vt, pref := q.ToDomain()
	s, err := h.slots.Recommend(c.Request.Context(), vt, pref)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlot(s))
}

// @Summary Seed the parking structure
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/admin/slots/initialize [post]
func (h *SlotHandler) Initialize(c *gin.Context) {
	created, err := h.slots.Initialize(c.Request.Context(), h.layout)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// @Summary Toggle slot maintenance
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body reqdto.SetMaintenanceRequest true "Maintenance flag"
// @Success 200 {object} resdto.SlotResponse
// @Router /api/admin/slots/{id}/maintenance [put]
func (h *SlotHandler) SetMaintenance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot id", nil)
		return
	}
	var req reqdto.SetMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	s, err := h.slots.SetMaintenance(c.Request.Context(), id, *req.Enabled)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlot(s))
}
