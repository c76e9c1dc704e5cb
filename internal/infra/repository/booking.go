package repository

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, ticket_number, user_id, vehicle_id, slot_id, status,
	entry_time, checkin_deadline, checkin_time, checkout_time,
	duration_hours::text, base_amount::text, surge_amount::text, total_amount::text,
	prepaid_amount::text, refunded_amount::text, payment_status, forfeited,
	created_at, updated_at`

// openStatuses matches the predicate of the bookings_open_* partial indexes.
const openStatuses = `status IN ('pending', 'active')`

type BookingRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewBookingRepository(db DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (id, ticket_number, user_id, vehicle_id, slot_id, status,
			entry_time, checkin_deadline, checkin_time, checkout_time,
			duration_hours, base_amount, surge_amount, total_amount,
			prepaid_amount, refunded_amount, payment_status, forfeited,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11::numeric, $12::numeric, $13::numeric, $14::numeric,
			$15::numeric, $16::numeric, $17, $18, $19, $20)`,
		b.ID(), b.Ticket(), b.UserID(), b.VehicleID(), b.SlotID(), b.Status().String(),
		b.EntryTime(), b.CheckinDeadline(), b.CheckinTime(), b.CheckoutTime(),
		pgconv.Numeric(b.DurationHours()), pgconv.Numeric(b.BaseAmount()),
		pgconv.Numeric(b.SurgeAmount()), pgconv.Numeric(b.TotalAmount()),
		pgconv.Numeric(b.PrepaidAmount()), pgconv.Numeric(b.RefundedAmount()),
		b.PaymentStatus().String(), b.Forfeited(), b.CreatedAt(), b.UpdatedAt())
	if err != nil {
		return translateErr(r.logger, "failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, "failed to find booking", `WHERE id = $1`, id)
}

func (r *BookingRepository) FindByTicket(ctx context.Context, ticket string) (*booking.Booking, error) {
	return r.findOne(ctx, "failed to find booking by ticket", `WHERE ticket_number = $1`, ticket)
}

func (r *BookingRepository) FindOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, "failed to find open booking", `WHERE vehicle_id = $1 AND `+openStatuses, vehicleID)
}

func (r *BookingRepository) ListOpenBySlot(ctx context.Context, slotID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(ctx, "failed to list open bookings for slot",
		`WHERE slot_id = $1 AND `+openStatuses+` ORDER BY created_at, ticket_number`, slotID)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(ctx, "failed to list bookings for user",
		`WHERE user_id = $1 ORDER BY created_at DESC, ticket_number DESC`, userID)
}

func (r *BookingRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*booking.Booking, error) {
	// LIMIT NULL means no limit
	var capped *int
	if limit > 0 {
		capped = &limit
	}
	return r.list(ctx, "failed to list overdue bookings",
		`WHERE status = 'pending' AND checkin_deadline < $1
		ORDER BY checkin_deadline, ticket_number
		LIMIT $2`, now, capped)
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, expected booking.Status) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET
			status = $3,
			checkin_time = $4,
			checkout_time = $5,
			duration_hours = $6::numeric,
			base_amount = $7::numeric,
			surge_amount = $8::numeric,
			total_amount = $9::numeric,
			refunded_amount = $10::numeric,
			payment_status = $11,
			forfeited = $12,
			updated_at = $13
		WHERE id = $1 AND status = $2`,
		b.ID(), expected.String(), b.Status().String(), b.CheckinTime(), b.CheckoutTime(),
		pgconv.Numeric(b.DurationHours()), pgconv.Numeric(b.BaseAmount()),
		pgconv.Numeric(b.SurgeAmount()), pgconv.Numeric(b.TotalAmount()),
		pgconv.Numeric(b.RefundedAmount()), b.PaymentStatus().String(), b.Forfeited(), b.UpdatedAt())
	if err != nil {
		return false, translateErr(r.logger, "failed to update booking", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	found, err := exists(ctx, r.db, "bookings", b.ID())
	if err != nil {
		return false, translateErr(r.logger, "failed to check booking", err)
	}
	if !found {
		return false, notFound(r.logger, "booking not found")
	}
	return false, nil
}

func (r *BookingRepository) findOne(ctx context.Context, msg, where string, args ...any) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings `+where+` LIMIT 1`, args...))
	if err != nil {
		return nil, translateErr(r.logger, msg, err)
	}
	return b, nil
}

func (r *BookingRepository) list(ctx context.Context, msg, where string, args ...any) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings `+where, args...)
	if err != nil {
		return nil, translateErr(r.logger, msg, err)
	}
	bookings, err := collect(rows, scanBooking)
	if err != nil {
		return nil, translateErr(r.logger, msg, err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		p                            booking.ReconstructParams
		status, paymentStatus        string
		duration, base, surge, total string
		prepaid, refunded            string
	)
	err := row.Scan(&p.ID, &p.Ticket, &p.UserID, &p.VehicleID, &p.SlotID, &status,
		&p.EntryTime, &p.CheckinDeadline, &p.CheckinTime, &p.CheckoutTime,
		&duration, &base, &surge, &total, &prepaid, &refunded, &paymentStatus, &p.Forfeited,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	amounts, err := pgconv.Decimals(duration, base, surge, total, prepaid, refunded)
	if err != nil {
		return nil, err
	}
	p.Status = booking.Status(status)
	p.PaymentStatus = booking.PaymentStatus(paymentStatus)
	p.DurationHours, p.BaseAmount, p.SurgeAmount = amounts[0], amounts[1], amounts[2]
	p.TotalAmount, p.PrepaidAmount, p.RefundedAmount = amounts[3], amounts[4], amounts[5]
	return booking.ReconstructBooking(p), nil
}
