//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parking-engine/internal/domain/booking"
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/domain/wallet"
	"parking-engine/internal/pkg/errs"
	"parking-engine/internal/usecase"
	"parking-engine/tests/common/builder"
	"parking-engine/tests/common/enginetest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, want errs.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, errs.KindOf(err), "error: %v", err)
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func paymentKinds(t *testing.T, e *enginetest.Engine, bookingID uuid.UUID) []wallet.PaymentKind {
	t.Helper()
	payments, err := e.Wallets.Payments(context.Background(), bookingID)
	require.NoError(t, err)
	kinds := make([]wallet.PaymentKind, 0, len(payments))
	for _, p := range payments {
		kinds = append(kinds, p.Kind())
	}
	return kinds
}

func TestBookingLifecycle_CreateReservation(t *testing.T) {
	t.Run("reserves the slot and takes one hour prepayment", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "100")

		b := e.Book(t, c, s)

		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Regexp(t, `^PKG20240101100000[A-Z0-9]{4}$`, b.Ticket())
		require.NotNil(t, b.CheckinDeadline())
		assert.Equal(t, enginetest.DefaultNow.Add(30*time.Minute), *b.CheckinDeadline())
		requireAmount(t, "20", b.PrepaidAmount())
		assert.Equal(t, slot.StatusReserved, e.SlotStatus(t, s.ID()))
		requireAmount(t, "80", e.Balance(t, c.UserID).Balance())
		assert.Equal(t, []wallet.PaymentKind{wallet.PaymentKindPrepayment}, paymentKinds(t, e, b.ID()))
		assert.Equal(t, []usecase.NotificationCategory{usecase.CategoryBookingCreated}, e.Sink.Categories())
		e.RequireSlotInvariant(t)
	})

	t.Run("insufficient funds for the prepayment rolls back the claim", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "10")

		_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
			UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: s.ID(),
		})

		requireKind(t, errs.KindInsufficientFunds, err)
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
		requireAmount(t, "10", e.Balance(t, c.UserID).Balance())
		bookings, err := e.Bookings.ListByUser(context.Background(), c.UserID)
		require.NoError(t, err)
		assert.Empty(t, bookings)
		assert.Empty(t, e.Sink.Categories())
	})
}

func TestBookingLifecycle_CreateErrors(t *testing.T) {
	cases := []struct {
		name   string
		params func(t *testing.T, e *enginetest.Engine, c enginetest.Customer, s *slot.Slot) usecase.CreateBookingParams
		want   errs.Kind
	}{
		{
			name: "unknown vehicle",
			params: func(_ *testing.T, _ *enginetest.Engine, c enginetest.Customer, s *slot.Slot) usecase.CreateBookingParams {
				return usecase.CreateBookingParams{UserID: c.UserID, VehicleID: uuid.New(), SlotID: s.ID()}
			},
			want: errs.KindVehicleNotFound,
		},
		{
			name: "vehicle of another user",
			params: func(_ *testing.T, _ *enginetest.Engine, c enginetest.Customer, s *slot.Slot) usecase.CreateBookingParams {
				return usecase.CreateBookingParams{UserID: uuid.New(), VehicleID: c.Vehicle.ID(), SlotID: s.ID()}
			},
			want: errs.KindVehicleNotFound,
		},
		{
			name: "unknown slot",
			params: func(_ *testing.T, _ *enginetest.Engine, c enginetest.Customer, _ *slot.Slot) usecase.CreateBookingParams {
				return usecase.CreateBookingParams{UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: uuid.New()}
			},
			want: errs.KindSlotNotFound,
		},
		{
			name: "slot for another vehicle type",
			params: func(t *testing.T, e *enginetest.Engine, c enginetest.Customer, _ *slot.Slot) usecase.CreateBookingParams {
				bike := e.SeedSlot(t, func(b *builder.SlotBuilder) {
					b.Position = 7
					b.VehicleType = slot.VehicleTypeBike
				})
				return usecase.CreateBookingParams{UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: bike.ID()}
			},
			want: errs.KindVehicleTypeMismatch,
		},
		{
			name: "slot under maintenance",
			params: func(t *testing.T, e *enginetest.Engine, c enginetest.Customer, _ *slot.Slot) usecase.CreateBookingParams {
				m := e.SeedSlot(t, func(b *builder.SlotBuilder) {
					b.Position = 5
					b.Status = slot.StatusMaintenance
				})
				return usecase.CreateBookingParams{UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: m.ID()}
			},
			want: errs.KindSlotUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := enginetest.New(t)
			s := e.SeedSlot(t)
			c := e.Customer(t, "100")

			_, err := e.Bookings.Create(context.Background(), tc.params(t, e, c, s))

			requireKind(t, tc.want, err)
			requireAmount(t, "100", e.Balance(t, c.UserID).Balance())
			e.RequireSlotInvariant(t)
		})
	}

	t.Run("slot already reserved", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		e.Book(t, e.Customer(t, "100"), s)
		c := e.Customer(t, "100")

		_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
			UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: s.ID(),
		})

		requireKind(t, errs.KindSlotUnavailable, err)
	})

	t.Run("vehicle with an open booking", func(t *testing.T) {
		e := enginetest.New(t)
		slots := e.SeedSlots(t, 2)
		c := e.Customer(t, "100")
		e.Book(t, c, slots[0])

		_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
			UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: slots[1].ID(),
		})

		requireKind(t, errs.KindDuplicateActiveBooking, err)
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, slots[1].ID()))
	})

	t.Run("vehicle can book again after its booking closes", func(t *testing.T) {
		e := enginetest.New(t)
		slots := e.SeedSlots(t, 2)
		c := e.Customer(t, "100")
		first := e.Book(t, c, slots[0])
		_, err := e.Bookings.Cancel(context.Background(), first.Ticket(), usecase.Actor{UserID: c.UserID})
		require.NoError(t, err)

		second := e.Book(t, c, slots[1])

		assert.Equal(t, booking.StatusPending, second.Status())
		e.RequireSlotInvariant(t)
	})
}

func TestBookingLifecycle_ConcurrentCreate(t *testing.T) {
	t.Run("only one of many drivers gets the same slot", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		customers := make([]enginetest.Customer, 10)
		for i := range customers {
			customers[i] = e.Customer(t, "100")
		}

		errCh := make(chan error, len(customers))
		var wg sync.WaitGroup
		for _, c := range customers {
			wg.Add(1)
			go func(c enginetest.Customer) {
				defer wg.Done()
				_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
					UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: s.ID(),
				})
				errCh <- err
			}(c)
		}
		wg.Wait()
		close(errCh)

		succeeded, unavailable := 0, 0
		for err := range errCh {
			switch errs.KindOf(err) {
			case "":
				succeeded++
			case errs.KindSlotUnavailable:
				unavailable++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 9, unavailable)
		assert.Equal(t, slot.StatusReserved, e.SlotStatus(t, s.ID()))
		e.RequireSlotInvariant(t)
	})

	t.Run("one vehicle racing for many slots gets one booking", func(t *testing.T) {
		e := enginetest.New(t)
		slots := e.SeedSlots(t, 10)
		c := e.Customer(t, "1000")

		errCh := make(chan error, len(slots))
		var wg sync.WaitGroup
		for _, s := range slots {
			wg.Add(1)
			go func(s *slot.Slot) {
				defer wg.Done()
				_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
					UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: s.ID(),
				})
				errCh <- err
			}(s)
		}
		wg.Wait()
		close(errCh)

		succeeded, duplicate := 0, 0
		for err := range errCh {
			switch errs.KindOf(err) {
			case "":
				succeeded++
			case errs.KindDuplicateActiveBooking:
				duplicate++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 9, duplicate)
		requireAmount(t, "980", e.Balance(t, c.UserID).Balance())
		e.RequireSlotInvariant(t)
	})
}

func TestBookingLifecycle_CheckIn(t *testing.T) {
	t.Run("within the window occupies the slot", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		b := e.Book(t, e.Customer(t, "100"), s)
		e.Clock.Add(10 * time.Minute)

		got, err := e.Bookings.CheckIn(context.Background(), b.Ticket())

		require.NoError(t, err)
		assert.Equal(t, booking.StatusActive, got.Status())
		require.NotNil(t, got.CheckinTime())
		assert.Equal(t, enginetest.DefaultNow.Add(10*time.Minute), *got.CheckinTime())
		assert.Equal(t, slot.StatusOccupied, e.SlotStatus(t, s.ID()))
		assert.Equal(t, 1, e.Sink.Count(usecase.CategoryCheckedIn))
		e.RequireSlotInvariant(t)
	})

	t.Run("exactly at the deadline is accepted", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		e.Clock.Add(30 * time.Minute)

		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())

		require.NoError(t, err)
	})

	t.Run("twice is rejected", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)

		_, err = e.Bookings.CheckIn(context.Background(), b.Ticket())

		requireKind(t, errs.KindAlreadyCheckedIn, err)
	})

	t.Run("after the deadline leaves the booking untouched", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		b := e.Book(t, e.Customer(t, "100"), s)
		e.Clock.Add(31 * time.Minute)

		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())

		requireKind(t, errs.KindBookingExpired, err)
		assert.Equal(t, booking.StatusPending, e.Booking(t, b.Ticket()).Status())
		assert.Equal(t, slot.StatusReserved, e.SlotStatus(t, s.ID()))
	})

	t.Run("unknown ticket", func(t *testing.T) {
		e := enginetest.New(t)

		_, err := e.Bookings.CheckIn(context.Background(), "PKG20240101100000NONE")

		requireKind(t, errs.KindBookingNotFound, err)
	})
}

func TestBookingLifecycle_CheckInWithToken(t *testing.T) {
	setup := func(t *testing.T) (*enginetest.Engine, *booking.Booking, booking.CheckinToken) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		token, err := e.Bookings.IssueCheckinToken(context.Background(), b.Ticket())
		require.NoError(t, err)
		return e, b, token
	}
	encode := func(t *testing.T, token booking.CheckinToken) []byte {
		payload, err := token.Encode()
		require.NoError(t, err)
		return payload
	}

	t.Run("issued token checks in", func(t *testing.T) {
		e, b, token := setup(t)
		assert.Equal(t, b.ID().String(), token.BookingID)
		assert.Equal(t, "A-101", token.Slot)

		got, err := e.Bookings.CheckInWithToken(context.Background(), encode(t, token))

		require.NoError(t, err)
		assert.Equal(t, booking.StatusActive, got.Status())
	})

	t.Run("stale booking id falls back to the ticket", func(t *testing.T) {
		e, _, token := setup(t)
		token.BookingID = uuid.NewString()

		got, err := e.Bookings.CheckInWithToken(context.Background(), encode(t, token))

		require.NoError(t, err)
		assert.Equal(t, booking.StatusActive, got.Status())
	})

	t.Run("ticket that matches no booking", func(t *testing.T) {
		e, b, token := setup(t)
		token.Ticket = b.Ticket() + "X"

		_, err := e.Bookings.CheckInWithToken(context.Background(), encode(t, token))

		requireKind(t, errs.KindBookingNotFound, err)
		assert.Equal(t, booking.StatusPending, e.Booking(t, b.Ticket()).Status())
	})

	t.Run("malformed payload", func(t *testing.T) {
		e, _, _ := setup(t)

		_, err := e.Bookings.CheckInWithToken(context.Background(), []byte(`{"type":"parking_booking"`))

		requireKind(t, errs.KindInvalidInput, err)
	})

	t.Run("token for a checked in booking cannot be issued", func(t *testing.T) {
		e, b, _ := setup(t)
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)

		_, err = e.Bookings.IssueCheckinToken(context.Background(), b.Ticket())

		requireKind(t, errs.KindAlreadyCheckedIn, err)
	})
}

func TestBookingLifecycle_CheckOut(t *testing.T) {
	t.Run("charges the remainder after the prepayment", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, s)
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)
		e.Clock.Add(90 * time.Minute)

		res, err := e.Bookings.CheckOut(context.Background(), b.Ticket())

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCompleted, res.Booking.Status())
		assert.Equal(t, booking.PaymentStatusPaid, res.Booking.PaymentStatus())
		requireAmount(t, "1.5", res.Booking.DurationHours())
		requireAmount(t, "30", res.Booking.BaseAmount())
		requireAmount(t, "15", res.Booking.SurgeAmount())
		requireAmount(t, "45", res.Booking.TotalAmount())
		requireAmount(t, "25", res.Charged)
		requireAmount(t, "0", res.Refunded)
		requireAmount(t, "55", res.Balance)
		assert.Equal(t, int64(4), res.LoyaltyAwarded)

		acct := e.Balance(t, c.UserID)
		requireAmount(t, "55", acct.Balance())
		assert.Equal(t, int64(4), acct.LoyaltyPoints())
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
		assert.Equal(t, []wallet.PaymentKind{wallet.PaymentKindPrepayment, wallet.PaymentKindSettlement}, paymentKinds(t, e, b.ID()))
		assert.Equal(t, 1, e.Sink.Count(usecase.CategoryCheckedOut))
		e.RequireSlotInvariant(t)
	})

	t.Run("refunds prepayment beyond the charge", func(t *testing.T) {
		e := enginetest.New(t, func(s *usecase.BookingSettings) {
			s.PrepayHours = decimal.NewFromInt(3)
		})
		c := e.Customer(t, "100")
		b := e.Book(t, c, e.SeedSlot(t))
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)
		e.Clock.Add(time.Hour)

		res, err := e.Bookings.CheckOut(context.Background(), b.Ticket())

		require.NoError(t, err)
		requireAmount(t, "30", res.Booking.TotalAmount())
		requireAmount(t, "0", res.Charged)
		requireAmount(t, "30", res.Refunded)
		requireAmount(t, "70", res.Balance)
		assert.Equal(t, []wallet.PaymentKind{
			wallet.PaymentKindPrepayment, wallet.PaymentKindSettlement, wallet.PaymentKindRefund,
		}, paymentKinds(t, e, b.ID()))
	})

	t.Run("insufficient balance changes nothing", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "20")
		b := e.Book(t, c, s)
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)
		e.Clock.Add(90 * time.Minute)

		_, err = e.Bookings.CheckOut(context.Background(), b.Ticket())

		requireKind(t, errs.KindInsufficientFunds, err)
		assert.Equal(t, booking.StatusActive, e.Booking(t, b.Ticket()).Status())
		assert.Equal(t, slot.StatusOccupied, e.SlotStatus(t, s.ID()))
		acct := e.Balance(t, c.UserID)
		requireAmount(t, "0", acct.Balance())
		assert.Zero(t, acct.LoyaltyPoints())
		assert.Equal(t, []wallet.PaymentKind{wallet.PaymentKindPrepayment}, paymentKinds(t, e, b.ID()))
		assert.Zero(t, e.Sink.Count(usecase.CategoryCheckedOut))

		e.Fund(t, c.UserID, "25")
		res, err := e.Bookings.Exit(context.Background(), b.Ticket())
		require.NoError(t, err)
		requireAmount(t, "0", res.Balance)
	})

	t.Run("pending booking cannot check out", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))

		_, err := e.Bookings.CheckOut(context.Background(), b.Ticket())

		requireKind(t, errs.KindInvalidTransition, err)
	})

	t.Run("completed booking cannot check out again", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)
		_, err = e.Bookings.CheckOut(context.Background(), b.Ticket())
		require.NoError(t, err)

		_, err = e.Bookings.CheckOut(context.Background(), b.Ticket())

		requireKind(t, errs.KindBookingTerminal, err)
	})
}

func TestBookingLifecycle_WalkIn(t *testing.T) {
	t.Run("balance covering two hours occupies the slot", func(t *testing.T) {
		e := enginetest.New(t, enginetest.WalkIn)
		s := e.SeedSlot(t)
		c := e.Customer(t, "40")

		b := e.Book(t, c, s)

		assert.Equal(t, booking.StatusActive, b.Status())
		assert.Nil(t, b.CheckinDeadline())
		requireAmount(t, "0", b.PrepaidAmount())
		assert.Equal(t, slot.StatusOccupied, e.SlotStatus(t, s.ID()))
		requireAmount(t, "40", e.Balance(t, c.UserID).Balance())
		assert.Equal(t, []usecase.NotificationCategory{
			usecase.CategoryBookingCreated, usecase.CategoryCheckedIn,
		}, e.Sink.Categories())
		e.RequireSlotInvariant(t)
	})

	t.Run("balance just below the minimum is rejected", func(t *testing.T) {
		e := enginetest.New(t, enginetest.WalkIn)
		s := e.SeedSlot(t)
		c := e.Customer(t, "39.99")

		_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
			UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: s.ID(),
		})

		requireKind(t, errs.KindInsufficientFunds, err)
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
	})

	t.Run("user without a wallet is rejected", func(t *testing.T) {
		e := enginetest.New(t, enginetest.WalkIn)
		s := e.SeedSlot(t)
		c := e.Customer(t, "")

		_, err := e.Bookings.Create(context.Background(), usecase.CreateBookingParams{
			UserID: c.UserID, VehicleID: c.Vehicle.ID(), SlotID: s.ID(),
		})

		requireKind(t, errs.KindInsufficientFunds, err)
	})

	t.Run("exit debits the full charge", func(t *testing.T) {
		e := enginetest.New(t, enginetest.WalkIn)
		c := e.Customer(t, "100")
		b := e.Book(t, c, e.SeedSlot(t))
		e.Clock.Add(2 * time.Hour)

		res, err := e.Bookings.Exit(context.Background(), b.Ticket())

		require.NoError(t, err)
		requireAmount(t, "60", res.Charged)
		requireAmount(t, "40", res.Balance)
		assert.Equal(t, int64(6), res.LoyaltyAwarded)
	})
}

func TestBookingLifecycle_Cancel(t *testing.T) {
	t.Run("owner cancels a pending booking with a fee", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, s)

		got, err := e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: c.UserID})

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, got.Status())
		requireAmount(t, "18", got.RefundedAmount())
		requireAmount(t, "98", e.Balance(t, c.UserID).Balance())
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
		assert.Equal(t, []wallet.PaymentKind{wallet.PaymentKindPrepayment, wallet.PaymentKindRefund}, paymentKinds(t, e, b.ID()))
		assert.Equal(t, 1, e.Sink.Count(usecase.CategoryCancelled))
		e.RequireSlotInvariant(t)
	})

	t.Run("another user sees no booking", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))

		_, err := e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: uuid.New()})

		requireKind(t, errs.KindBookingNotFound, err)
		assert.Equal(t, booking.StatusPending, e.Booking(t, b.Ticket()).Status())
	})

	t.Run("owner cannot cancel an active booking", func(t *testing.T) {
		e := enginetest.New(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, e.SeedSlot(t))
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)

		_, err = e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: c.UserID})

		requireKind(t, errs.KindInvalidTransition, err)
	})

	t.Run("admin cancels an active booking", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, s)
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)

		got, err := e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: uuid.New(), Admin: true})

		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, got.Status())
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
		requireAmount(t, "98", e.Balance(t, c.UserID).Balance())
	})

	t.Run("cancelled booking cannot be cancelled again", func(t *testing.T) {
		e := enginetest.New(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, e.SeedSlot(t))
		_, err := e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: c.UserID})
		require.NoError(t, err)

		_, err = e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: c.UserID})

		requireKind(t, errs.KindBookingTerminal, err)
		requireAmount(t, "98", e.Balance(t, c.UserID).Balance())
	})
}

func TestBookingLifecycle_Expire(t *testing.T) {
	t.Run("overdue booking is forfeited and the slot freed", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, s)
		e.Clock.Add(31 * time.Minute)

		res, err := e.Bookings.Expire(context.Background(), b.Ticket())

		require.NoError(t, err)
		assert.Equal(t, usecase.ExpireOutcomeExpired, res.Outcome)
		got := e.Booking(t, b.Ticket())
		assert.Equal(t, booking.StatusExpired, got.Status())
		assert.True(t, got.Forfeited())
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
		requireAmount(t, "80", e.Balance(t, c.UserID).Balance())
		assert.Equal(t, 1, e.Sink.Count(usecase.CategoryExpired))
		e.RequireSlotInvariant(t)
	})

	t.Run("expiring twice is a no-op", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		e.Clock.Add(31 * time.Minute)
		_, err := e.Bookings.Expire(context.Background(), b.Ticket())
		require.NoError(t, err)

		res, err := e.Bookings.Expire(context.Background(), b.Ticket())

		require.NoError(t, err)
		assert.Equal(t, usecase.ExpireOutcomeAlreadyExpired, res.Outcome)
		assert.Equal(t, 1, e.Sink.Count(usecase.CategoryExpired))
	})

	t.Run("check in after expiry reports the booking expired", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		b := e.Book(t, e.Customer(t, "100"), s)
		e.Clock.Add(31 * time.Minute)
		_, err := e.Bookings.Expire(context.Background(), b.Ticket())
		require.NoError(t, err)

		_, err = e.Bookings.CheckIn(context.Background(), b.Ticket())

		requireKind(t, errs.KindBookingExpired, err)
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
	})

	t.Run("checked in booking is left alone", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		b := e.Book(t, e.Customer(t, "100"), s)
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)
		e.Clock.Add(time.Hour)

		res, err := e.Bookings.Expire(context.Background(), b.Ticket())

		require.NoError(t, err)
		assert.Equal(t, usecase.ExpireOutcomeCheckedIn, res.Outcome)
		assert.Equal(t, slot.StatusOccupied, e.SlotStatus(t, s.ID()))
	})

	t.Run("booking inside its window cannot expire", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		e.Clock.Add(30 * time.Minute)

		_, err := e.Bookings.Expire(context.Background(), b.Ticket())

		requireKind(t, errs.KindInvalidTransition, err)
		assert.Equal(t, booking.StatusPending, e.Booking(t, b.Ticket()).Status())
	})

	t.Run("racing expiry and check in leave one winner", func(t *testing.T) {
		e := enginetest.New(t)
		s := e.SeedSlot(t)
		b := e.Book(t, e.Customer(t, "100"), s)
		e.Clock.Add(31 * time.Minute)

		var wg sync.WaitGroup
		var checkInErr, expireErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, checkInErr = e.Bookings.CheckIn(context.Background(), b.Ticket())
		}()
		go func() {
			defer wg.Done()
			_, expireErr = e.Bookings.Expire(context.Background(), b.Ticket())
		}()
		wg.Wait()

		require.NoError(t, expireErr)
		requireKind(t, errs.KindBookingExpired, checkInErr)
		assert.Equal(t, booking.StatusExpired, e.Booking(t, b.Ticket()).Status())
		assert.Equal(t, slot.StatusAvailable, e.SlotStatus(t, s.ID()))
		e.RequireSlotInvariant(t)
	})
}

func TestBookingLifecycle_Queries(t *testing.T) {
	t.Run("quote prices the stay so far", func(t *testing.T) {
		e := enginetest.New(t)
		b := e.Book(t, e.Customer(t, "100"), e.SeedSlot(t))
		_, err := e.Bookings.CheckIn(context.Background(), b.Ticket())
		require.NoError(t, err)
		e.Clock.Add(2 * time.Hour)

		quote, err := e.Bookings.Quote(context.Background(), b.Ticket())

		require.NoError(t, err)
		assert.True(t, quote.IsPeak)
		requireAmount(t, "60", quote.TotalAmount)
		assert.Equal(t, booking.StatusActive, e.Booking(t, b.Ticket()).Status())
	})

	t.Run("quote of a closed booking", func(t *testing.T) {
		e := enginetest.New(t)
		c := e.Customer(t, "100")
		b := e.Book(t, c, e.SeedSlot(t))
		_, err := e.Bookings.Cancel(context.Background(), b.Ticket(), usecase.Actor{UserID: c.UserID})
		require.NoError(t, err)

		_, err = e.Bookings.Quote(context.Background(), b.Ticket())

		requireKind(t, errs.KindBookingTerminal, err)
	})

	t.Run("list by user is newest first", func(t *testing.T) {
		e := enginetest.New(t)
		slots := e.SeedSlots(t, 2)
		c := e.Customer(t, "100")
		first := e.Book(t, c, slots[0])
		_, err := e.Bookings.Cancel(context.Background(), first.Ticket(), usecase.Actor{UserID: c.UserID})
		require.NoError(t, err)
		e.Clock.Add(time.Minute)
		second := e.Book(t, c, slots[1])
		e.Book(t, e.Customer(t, "100"), e.SeedSlot(t, func(b *builder.SlotBuilder) { b.Position = 3 }))

		got, err := e.Bookings.ListByUser(context.Background(), c.UserID)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.Ticket(), got[0].Ticket())
		assert.Equal(t, first.Ticket(), got[1].Ticket())
	})
}

func TestBookingLifecycle_NotificationFailure(t *testing.T) {
	e := enginetest.New(t)
	e.Sink.Fail = errors.New("sink unavailable")
	s := e.SeedSlot(t)

	b := e.Book(t, e.Customer(t, "100"), s)

	assert.Equal(t, booking.StatusPending, e.Booking(t, b.Ticket()).Status())
	assert.Equal(t, slot.StatusReserved, e.SlotStatus(t, s.ID()))
	assert.Equal(t, 1, e.Sink.Count(usecase.CategoryBookingCreated))
}
