package telegram

import (
	"go.uber.org/fx"

	"github.com/kinobot-uz/kinobot/internal/usecase/redemption"
)

// Module provides the delivery layer for fx dependency injection
var Module = fx.Module("delivery",
	fx.Provide(NewHandlers),
	fx.Provide(NewDeliverer),
	fx.Invoke(register),
)

// register connects the deliverer to the sequencer and installs all
// update handlers before the bot starts polling.
func register(handlers *Handlers, deliverer *Deliverer, sequencer *redemption.Sequencer) {
	sequencer.SetDeliverer(deliverer)
	handlers.Register()
}
