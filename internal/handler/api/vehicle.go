package api

import (
	"net/http"

	reqdto "parking-engine/internal/handler/dto/request"
	resdto "parking-engine/internal/handler/dto/response"
	"parking-engine/internal/handler/httperr"
	"parking-engine/internal/handler/middleware"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicles VehicleService
}

func NewVehicleHandler(vehicles VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// @Summary Register a vehicle
// @Tags vehicles
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterVehicleRequest true "Vehicle"
// @Success 201 {object} resdto.VehicleResponse
// @Failure 409 {object} httperr.Response
// @Router /api/vehicles [post]
func (h *VehicleHandler) Register(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	var req reqdto.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	vt, plate := req.ToDomain()
	v, err := h.vehicles.Register(c.Request.Context(), userID, vt, plate)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromVehicle(v))
}

// @Summary List own vehicles
// @Tags vehicles
// @Produce json
// @Success 200 {array} resdto.VehicleResponse
// @Router /api/vehicles [get]
func (h *VehicleHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return
	}
	vs, err := h.vehicles.List(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromVehicles(vs))
}
