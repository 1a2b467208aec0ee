package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/config"
	"github.com/shandysiswandi/otpbite/internal/pkg/hash"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpbite/internal/pkg/lock"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
	"github.com/shandysiswandi/otpbite/internal/pkg/router"
	"github.com/shandysiswandi/otpbite/internal/pkg/session"
	"github.com/shandysiswandi/otpbite/internal/pkg/uid"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator *validator.V10Validator
	clock     clock.Clocker
	hash      hash.Hash
	uuid      uid.StringID
	secretIDs uid.StringID
	generator otp.Generator

	// resources
	cacheConn *redis.Client
	store     kvstore.Store
	locker    lock.Locker
	sessions  *session.Manager

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initStore()
	app.initLocker()
	app.initSession()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
