package otp

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpbite/internal/otp/entity"
	"github.com/shandysiswandi/otpbite/internal/otp/inbound"
	"github.com/shandysiswandi/otpbite/internal/otp/outbound/cache"
	"github.com/shandysiswandi/otpbite/internal/otp/usecase"
	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/config"
	"github.com/shandysiswandi/otpbite/internal/pkg/hash"
	"github.com/shandysiswandi/otpbite/internal/pkg/instrument"
	"github.com/shandysiswandi/otpbite/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpbite/internal/pkg/lock"
	otpgen "github.com/shandysiswandi/otpbite/internal/pkg/otp"
	"github.com/shandysiswandi/otpbite/internal/pkg/router"
	"github.com/shandysiswandi/otpbite/internal/pkg/session"
	"github.com/shandysiswandi/otpbite/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Store      kvstore.Store              `validate:"required"`
	Sessions   *session.Manager           `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Hash       hash.Hash                  `validate:"required"`
	Generator  otpgen.Generator           `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Translator validator.Translator       `validate:"required"`
	// Locker is only used when modules.otp.serialize_validation is on.
	Locker lock.Locker
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	var locker lock.Locker
	if dep.Config.GetBool("modules.otp.serialize_validation") {
		locker = dep.Locker
		if locker == nil {
			slog.Warn("otp validation serialization requested without a locker")
		}
	}

	uc := usecase.New(usecase.Dependency{
		RepoCache:   cache.NewCache(dep.Store, dep.Instrument),
		Identifiers: session.Source{},
		Generator:   dep.Generator,
		Hash:        dep.Hash,
		Locker:      locker,
		Validator:   dep.Validator,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
		Settings:    settingsFromConfig(dep.Config),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Translator, dep.Sessions.Middleware)

	return nil
}

// settingsFromConfig overlays the modules.otp.* keys that are set and not
// empty on top of the engine defaults.
func settingsFromConfig(cfg config.Config) entity.Settings {
	const p = "modules.otp."
	set := func(key string) bool {
		return cfg.IsSet(p+key) && len(cfg.GetArray(p+key)) > 0
	}

	var opts []entity.Option
	// customize alone switches the format; an explicit format still wins.
	if set("customize") {
		opts = append(opts, entity.WithCustomize(cfg.GetString(p+"customize")))
	}
	if set("format") {
		opts = append(opts, entity.WithFormat(otpgen.Format(cfg.GetString(p+"format"))))
	}
	if set("length") {
		lengths := lo.FilterMap(cfg.GetArray(p+"length"), func(item string, _ int) (int, bool) {
			n, err := strconv.Atoi(item)
			if err != nil {
				slog.Warn("ignoring invalid otp length", "value", item)
				return 0, false
			}
			return n, true
		})
		if len(lengths) > 0 {
			opts = append(opts, entity.WithLength(lengths...))
		}
	}
	if set("separator") {
		opts = append(opts, entity.WithSeparator(cfg.GetString(p+"separator")))
	}
	if set("sensitive") {
		opts = append(opts, entity.WithSensitive(cfg.GetBool(p+"sensitive")))
	}
	// Zero is treated as unset; a zero window would store records forever.
	if set("expires") && cfg.GetInt(p+"expires") > 0 {
		opts = append(opts, entity.WithExpires(cfg.GetInt(p+"expires")))
	}
	if set("attempts") {
		opts = append(opts, entity.WithAttempts(cfg.GetInt(p+"attempts")))
	}
	if set("prefix") {
		opts = append(opts, entity.WithPrefix(cfg.GetString(p+"prefix")))
	}
	if set("data") {
		if raw := cfg.GetString(p + "data"); json.Valid([]byte(raw)) {
			opts = append(opts, entity.WithData(json.RawMessage(raw)))
		} else {
			slog.Warn("ignoring otp data that is not valid json")
		}
	}
	if set("demo") {
		opts = append(opts, entity.WithDemo(cfg.GetBool(p+"demo")))
	}
	if set("demo_passwords") {
		opts = append(opts, entity.WithDemoPasswords(cfg.GetArray(p+"demo_passwords")...))
	}

	return entity.DefaultSettings().Apply(opts...)
}
