package handler

import (
	"log/slog"
	"net/http"

	"parking-engine/internal/handler/api"
	"parking-engine/internal/handler/middleware"
	"parking-engine/internal/infra/metrics"
	"parking-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Slots    *api.SlotHandler
	Vehicles *api.VehicleHandler
	Wallets  *api.WalletHandler
	Bookings *api.BookingHandler
	Admin    *api.AdminHandler
	Events   *api.EventsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, m *metrics.Metrics, h Handlers) {
	setupMiddleware(engine, cfg, logger, m)
	setupRoutes(engine, m, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.LoggingMiddleware(logger))
	if m != nil {
		engine.Use(m.Middleware())
	}
	engine.Use(middleware.ErrorHandler(logger))
}

func setupRoutes(engine *gin.Engine, m *metrics.Metrics, h Handlers) {
	engine.GET("/health", healthCheck)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
	if h.Events != nil {
		engine.GET("/ws/events", middleware.RequireUser(), h.Events.Stream)
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.RequireUser())
	{
		addRoutes(apiGroup.Group("/slots"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Slots.List},
			{Method: http.MethodGet, Path: "/stats", Handler: h.Slots.Stats},
			{Method: http.MethodGet, Path: "/recommend", Handler: h.Slots.Recommend},
		})

		addRoutes(apiGroup.Group("/vehicles"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Vehicles.Register},
			{Method: http.MethodGet, Path: "", Handler: h.Vehicles.List},
		})

		addRoutes(apiGroup.Group("/wallet"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Wallets.Balance},
			{Method: http.MethodPost, Path: "/topup", Handler: h.Wallets.TopUp},
		})

		addRoutes(apiGroup.Group("/bookings"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Bookings.Create},
			{Method: http.MethodGet, Path: "", Handler: h.Bookings.List},
			{Method: http.MethodPost, Path: "/checkin/token", Handler: h.Bookings.CheckInWithToken},
			{Method: http.MethodGet, Path: "/:ticket", Handler: h.Bookings.Get},
			{Method: http.MethodGet, Path: "/:ticket/quote", Handler: h.Bookings.Quote},
			{Method: http.MethodGet, Path: "/:ticket/payments", Handler: h.Bookings.Payments},
			{Method: http.MethodGet, Path: "/:ticket/token", Handler: h.Bookings.IssueToken},
			{Method: http.MethodPost, Path: "/:ticket/checkin", Handler: h.Bookings.CheckIn},
			{Method: http.MethodPost, Path: "/:ticket/checkout", Handler: h.Bookings.CheckOut},
			{Method: http.MethodPost, Path: "/:ticket/cancel", Handler: h.Bookings.Cancel},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		addRoutes(admin, []route{
			{Method: http.MethodPost, Path: "/slots/initialize", Handler: h.Slots.Initialize},
			{Method: http.MethodPut, Path: "/slots/:id/maintenance", Handler: h.Slots.SetMaintenance},
			{Method: http.MethodPost, Path: "/bookings/:ticket/cancel", Handler: h.Bookings.AdminCancel},
			{Method: http.MethodPost, Path: "/reaper/sweep", Handler: h.Admin.Sweep},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
