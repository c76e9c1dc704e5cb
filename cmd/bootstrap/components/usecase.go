package components

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/domain/pricing"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/infra/metrics"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/pkg/config"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase"
	"parking-engine/internal/usecase/shared"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseServicesModule,
	usecaseReaperModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPriceCalculator,
)

var usecaseServicesModule = fx.Module("usecase/services",
	fx.Provide(
		usecase.NewSlotRegistry,
		usecase.NewVehicleUseCase,
		NewWalletLedger,
		NewBookingLifecycle,
	),
	fx.Invoke(SeedLayout),
)

var usecaseReaperModule = fx.Module("usecase/reaper",
	fx.Provide(
		NewExpiryReaper,
	),
	fx.Invoke(StartReaper),
)

func NewPriceCalculator(cfg config.Config) (*pricing.Calculator, error) {
	loc, err := time.LoadLocation(cfg.Pricing.TimeZone)
	if err != nil {
		return nil, errs.Wrapf(err, "invalid PRICING_TIMEZONE %q", cfg.Pricing.TimeZone)
	}
	p := cfg.Pricing
	return pricing.NewCalculator(pricing.Rules{
		PeakPercent:             decimal.NewFromFloat(p.PeakPercent),
		WeekendPercent:          decimal.NewFromFloat(p.WeekendPercent),
		NightMultiplier:         decimal.NewFromFloat(p.NightMultiplier),
		LongStayHours:           decimal.NewFromFloat(p.LongStayHours),
		LongStayDiscountPercent: decimal.NewFromFloat(p.LongStayDiscountPercent),
		PeakStartHour:           p.PeakStartHour,
		PeakEndHour:             p.PeakEndHour,
		NightStartHour:          p.NightStartHour,
		NightEndHour:            p.NightEndHour,
		Location:                loc,
	})
}

func NewWalletLedger(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger, cfg config.Config) usecase.WalletLedger {
	return usecase.NewWalletLedger(uow, clk, logger, decimal.NewFromFloat(cfg.Booking.LoyaltyDivisor))
}

func BookingSettings(cfg config.BookingConfig) usecase.BookingSettings {
	return usecase.BookingSettings{
		Mode:                   usecase.BookingMode(cfg.Mode),
		CheckinWindow:          time.Duration(cfg.CheckinWindowMinutes) * time.Minute,
		CancellationFeePercent: decimal.NewFromFloat(cfg.CancellationFeePercent),
		MinBalanceHours:        decimal.NewFromFloat(cfg.MinBalanceHours),
		PrepayHours:            decimal.NewFromFloat(cfg.PrepayHours),
		TicketPrefix:           cfg.TicketPrefix,
	}
}

func NewBookingLifecycle(
	uow shared.UnitOfWork,
	slots usecase.SlotRegistry,
	ledger usecase.WalletLedger,
	calculator *pricing.Calculator,
	sink usecase.NotificationSink,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) usecase.BookingLifecycle {
	return usecase.NewBookingLifecycle(uow, slots, ledger, calculator, sink, clk, logger, BookingSettings(cfg.Booking))
}

// SeedLayout creates the configured structure on start. Existing slot numbers
// are left alone, so restarts are harmless.
func SeedLayout(lc fx.Lifecycle, cfg config.Config, slots usecase.SlotRegistry, layout slot.Layout, logger *slog.Logger) {
	if !cfg.Layout.SeedOnStart {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			created, err := slots.Initialize(ctx, layout)
			if err != nil {
				return err
			}
			logger.Info("parking layout seeded", slog.Int("created", created))
			return nil
		},
	})
}

func NewExpiryReaper(
	lifecycle usecase.BookingLifecycle,
	lease usecase.SweepLease,
	m *metrics.Metrics,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *usecase.ExpiryReaper {
	return usecase.NewExpiryReaper(lifecycle, lease, m, clk, logger, usecase.ReaperSettings{
		Interval:  cfg.Reaper.Interval,
		BatchSize: cfg.Reaper.BatchSize,
	})
}

func StartReaper(lc fx.Lifecycle, cfg config.Config, reaper *usecase.ExpiryReaper) {
	if !cfg.Reaper.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return reaper.Start()
		},
		OnStop: reaper.Stop,
	})
}
