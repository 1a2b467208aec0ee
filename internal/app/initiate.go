package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
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

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.secretIDs = uid.NewRandomUUID()
	a.generator = otp.NewRandom()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	hasher, err := hash.NewFromDriver(a.config.GetString("hash.driver"), hash.FactoryOptions{
		Bcrypt: hash.BcryptOptions{
			Cost:   a.config.GetInt("hash.bcrypt.cost"),
			Pepper: a.config.GetString("hash.bcrypt.pepper"),
		},
		Argon2id: hash.Argon2idOptions{
			Memory:      a.config.GetUint32("hash.argon2id.memory_kib"),
			Iterations:  a.config.GetUint32("hash.argon2id.iterations"),
			Parallelism: uint8(min(a.config.GetUint32("hash.argon2id.parallelism"), 255)), //nolint:gosec // clamped
			Pepper:      a.config.GetString("hash.argon2id.pepper"),
		},
	})
	if err != nil {
		slog.Error("failed to init hash", "error", err)
		os.Exit(1)
	}
	a.hash = hasher
}

func (a *App) initStore() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("store.driver")))

	opts := kvstore.FactoryOptions{Clock: a.clock}

	switch driver {
	case kvstore.DriverRedis:
		a.initRedis()
		opts.Redis = a.cacheConn
	case kvstore.DriverDynamoDB:
		client, err := kvstore.NewDynamoDBClient(a.ctx, kvstore.DynamoDBClientOptions{
			Region:       strings.TrimSpace(a.config.GetString("store.dynamodb.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("store.dynamodb.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("store.dynamodb.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("store.dynamodb.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("store.dynamodb.session_token")),
		})
		if err != nil {
			slog.Error("failed to init dynamodb client", "error", err)
			os.Exit(1)
		}
		opts.DynamoDB = kvstore.DynamoDBOptions{
			Client: client,
			Table:  a.config.GetString("store.dynamodb.table"),
		}
	}

	store, err := kvstore.NewFromDriver(driver, opts)
	if err != nil {
		slog.Error("failed to init store", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.store = store
}

func (a *App) initRedis() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

// initLocker shares the redis connection when there is one, so validation
// is serialized across replicas. Otherwise the lock is process local.
func (a *App) initLocker() {
	if a.cacheConn != nil {
		a.locker = lock.NewRedis(a.cacheConn, a.secretIDs)
		return
	}
	a.locker = lock.NewMemory(a.clock)
}

func (a *App) initSession() {
	secret := a.config.GetString("session.secret")
	if len(secret) < 32 {
		slog.Error("failed to init session, secret must be at least 32 bytes")
		os.Exit(1)
	}

	name := a.config.GetString("session.name")
	if name == "" {
		name = "otpbite_session"
	}

	store := session.NewCookieStore(session.Config{
		Name:   name,
		Secret: []byte(secret),
		MaxAge: a.config.GetInt("session.max_age_seconds"),
		Secure: a.config.GetBool("session.secure"),
	})

	a.sessions = session.NewManager(store, name, a.secretIDs)
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
