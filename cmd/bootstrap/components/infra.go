package components

import (
	"context"
	"log/slog"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/infra/layout"
	"parking-engine/internal/infra/lease"
	"parking-engine/internal/infra/metrics"
	"parking-engine/internal/infra/notify"
	"parking-engine/internal/pkg/config"
	"parking-engine/internal/usecase"

	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		metrics.New,
		NewHub,
		NewNotificationSink,
		NewSweepLease,
		NewLayout,
	),
)

func NewHub(lc fx.Lifecycle, logger *slog.Logger) *notify.Hub {
	hub := notify.NewHub(logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// NewNotificationSink fans lifecycle events out to the log, websocket
// subscribers and the event counters.
func NewNotificationSink(logger *slog.Logger, hub *notify.Hub, m *metrics.Metrics) usecase.NotificationSink {
	return notify.NewDispatcher(notify.NewLogSink(logger), hub, m)
}

// NewSweepLease shares the reaper lease through Redis when REDIS_ADDR is set.
func NewSweepLease(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) usecase.SweepLease {
	if cfg.Redis.Addr == "" {
		return lease.NewLocal()
	}

	client := lease.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := lease.Ping(ctx, client); err != nil {
				return err
			}
			logger.Info("redis sweep lease enabled", slog.String("addr", cfg.Redis.Addr))
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return lease.NewRedis(client, cfg.Reaper.LeaseKey, cfg.Reaper.LeaseTTL, logger)
}

func NewLayout(cfg config.Config) (slot.Layout, error) {
	return layout.Load(cfg.Layout.File)
}
