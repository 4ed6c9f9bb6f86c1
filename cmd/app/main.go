package main

import (
	"go.uber.org/fx"

	"github.com/kinobot-uz/kinobot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
