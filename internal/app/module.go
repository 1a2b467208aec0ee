package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpbite/internal/otp"
)

func (a *App) initModules() {
	if err := otp.New(otp.Dependency{
		Router:     a.router,
		Store:      a.store,
		Sessions:   a.sessions,
		Config:     a.config,
		Instrument: a.ins,
		Hash:       a.hash,
		Generator:  a.generator,
		Clock:      a.clock,
		Validator:  a.validator,
		Translator: a.validator,
		Locker:     a.locker,
	}); err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}
}
