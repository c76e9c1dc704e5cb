package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/pkg/clock"
	"parking-engine/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

//go:generate mockgen -source=expiry_reaper.go -destination=../../tests/mock/usecase/expiry_reaper.go -package=usecasemock

// BookingExpirer is the part of the lifecycle the reaper drives.
type BookingExpirer interface {
	ListOverdue(ctx context.Context, limit int) ([]*booking.Booking, error)
	Expire(ctx context.Context, ticket string) (ExpireResult, error)
}

// SweepLease keeps concurrent replicas from sweeping at the same time.
type SweepLease interface {
	TryAcquire(ctx context.Context) (release func(), acquired bool, err error)
}

type SweepObserver interface {
	ObserveSweep(report SweepReport)
}

type SweepFailure struct {
	Ticket string    `json:"ticket"`
	Kind   errs.Kind `json:"kind"`
	Reason string    `json:"reason"`
}

type SweepReport struct {
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Scanned     int            `json:"scanned"`
	Expired     int            `json:"expired"`
	Skipped     int            `json:"skipped"`
	Failures    []SweepFailure `json:"failures"`
	Interrupted bool           `json:"interrupted"`
	// LeaseHeld is set when another replica owned the sweep lease.
	LeaseHeld bool `json:"lease_held"`
}

type ReaperSettings struct {
	Interval  time.Duration
	BatchSize int
}

type ExpiryReaper struct {
	expirer  BookingExpirer
	lease    SweepLease
	observer SweepObserver
	clock    clock.Clock
	logger   *slog.Logger
	settings ReaperSettings

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewExpiryReaper(
	expirer BookingExpirer,
	lease SweepLease,
	observer SweepObserver,
	clk clock.Clock,
	logger *slog.Logger,
	settings ReaperSettings,
) *ExpiryReaper {
	return &ExpiryReaper{
		expirer:  expirer,
		lease:    lease,
		observer: observer,
		clock:    clk,
		logger:   logger,
		settings: settings,
	}
}

// Sweep expires every overdue pending booking. Each booking expires in its
// own transaction and a failing booking is reported without stopping the
// rest. Cancelling ctx stops the batch; the next sweep picks up the remainder.
func (r *ExpiryReaper) Sweep(ctx context.Context) (SweepReport, error) {
	report := SweepReport{StartedAt: r.clock.Now(), Failures: []SweepFailure{}}

	if r.lease != nil {
		release, acquired, err := r.lease.TryAcquire(ctx)
		if err != nil {
			return report, errs.Wrap(err, "failed to acquire sweep lease")
		}
		if !acquired {
			report.LeaseHeld = true
			r.logger.Debug("sweep lease held elsewhere, skipping")
			return report, nil
		}
		defer release()
	}

	overdue, err := r.expirer.ListOverdue(ctx, r.settings.BatchSize)
	if err != nil {
		return report, errs.Wrap(err, "failed to list overdue bookings")
	}
	report.Scanned = len(overdue)

	for _, b := range overdue {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		result, err := r.expirer.Expire(ctx, b.Ticket())
		if err != nil {
			report.Failures = append(report.Failures, SweepFailure{
				Ticket: b.Ticket(),
				Kind:   errs.KindOf(err),
				Reason: err.Error(),
			})
			r.logger.Warn("failed to expire booking",
				slog.String("ticket", b.Ticket()),
				slog.String("error", err.Error()))
			continue
		}
		if result.Outcome == ExpireOutcomeExpired {
			report.Expired++
		} else {
			report.Skipped++
		}
	}

	report.Duration = r.clock.Now().Sub(report.StartedAt)
	if report.Scanned > 0 || len(report.Failures) > 0 {
		r.logger.Info("expiry sweep finished",
			slog.Int("scanned", report.Scanned),
			slog.Int("expired", report.Expired),
			slog.Int("skipped", report.Skipped),
			slog.Int("failed", len(report.Failures)),
			slog.Bool("interrupted", report.Interrupted))
	}
	if r.observer != nil {
		r.observer.ObserveSweep(report)
	}
	return report, nil
}

// Start schedules Sweep every Interval until Stop is called.
func (r *ExpiryReaper) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return nil
	}
	if r.settings.Interval <= 0 {
		return errs.Reason(errs.ErrInvalidInput, "reaper interval must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc("@every "+r.settings.Interval.String(), func() {
		if _, err := r.Sweep(ctx); err != nil {
			r.logger.Error("expiry sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		cancel()
		return errs.Wrap(err, "failed to schedule expiry sweep")
	}
	c.Start()

	r.cron = c
	r.cancel = cancel
	r.logger.Info("expiry reaper started", slog.Duration("interval", r.settings.Interval))
	return nil
}

// Stop cancels an in-flight sweep and waits for it to return or ctx to end.
func (r *ExpiryReaper) Stop(ctx context.Context) error {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()
	if c == nil {
		return nil
	}

	cancel()
	select {
	case <-c.Stop().Done():
		r.logger.Info("expiry reaper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
