package components

import (
	"parking-engine/internal/domain/slot"
	"parking-engine/internal/handler"
	"parking-engine/internal/handler/api"
	"parking-engine/internal/infra/notify"
	"parking-engine/internal/usecase"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	slots usecase.SlotRegistry,
	vehicles usecase.VehicleUseCase,
	wallets usecase.WalletLedger,
	bookings usecase.BookingLifecycle,
	reaper *usecase.ExpiryReaper,
	hub *notify.Hub,
	layout slot.Layout,
) handler.Handlers {
	return handler.Handlers{
		Slots:    api.NewSlotHandler(slots, layout),
		Vehicles: api.NewVehicleHandler(vehicles),
		Wallets:  api.NewWalletHandler(wallets),
		Bookings: api.NewBookingHandler(bookings, wallets),
		Admin:    api.NewAdminHandler(reaper),
		Events:   api.NewEventsHandler(hub),
	}
}
