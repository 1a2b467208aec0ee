package entity

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
)

// Settings is the fully resolved configuration of a single engine call.
type Settings struct {
	Format        otp.Format `validate:"otpformat"`
	Customize     string
	Length        []int
	Separator     string
	Sensitive     bool
	Expires       int `validate:"gte=1"`
	Attempts      int `validate:"gte=0"`
	Prefix        string
	Data          json.RawMessage
	Skip          bool
	Demo          bool
	DemoPasswords []string
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Format:        otp.FormatNumeric,
		Length:        []int{6},
		Separator:     otp.DefaultSeparator,
		Sensitive:     false,
		Expires:       15,
		Attempts:      5,
		Prefix:        "OTPPX_",
		Demo:          false,
		DemoPasswords: []string{"1234", "123456", "12345678"},
	}
}

// Option overrides one setting for a single call.
type Option func(*Settings)

// Apply returns a copy of s with opts applied. s itself is left untouched.
func (s Settings) Apply(opts ...Option) Settings {
	out := s
	out.Length = slices.Clone(s.Length)
	out.DemoPasswords = slices.Clone(s.DemoPasswords)
	out.Data = slices.Clone(s.Data)

	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

func WithFormat(f otp.Format) Option {
	return func(s *Settings) { s.Format = f }
}

// WithCustomize sets the charset and switches the format to customize.
func WithCustomize(charset string) Option {
	return func(s *Settings) {
		s.Customize = charset
		s.Format = otp.FormatCustomize
	}
}

// WithLength sets one length per password segment.
func WithLength(lengths ...int) Option {
	return func(s *Settings) { s.Length = slices.Clone(lengths) }
}

func WithSeparator(sep string) Option {
	return func(s *Settings) { s.Separator = sep }
}

func WithSensitive(sensitive bool) Option {
	return func(s *Settings) { s.Sensitive = sensitive }
}

// WithExpires sets the validity window in minutes.
func WithExpires(minutes int) Option {
	return func(s *Settings) { s.Expires = minutes }
}

func WithAttempts(attempts int) Option {
	return func(s *Settings) { s.Attempts = attempts }
}

func WithPrefix(prefix string) Option {
	return func(s *Settings) { s.Prefix = prefix }
}

// WithData attaches a payload returned by a successful validation.
func WithData(data json.RawMessage) Option {
	return func(s *Settings) { s.Data = slices.Clone(data) }
}

// WithSkip keeps the record after a successful validation.
func WithSkip(skip bool) Option {
	return func(s *Settings) { s.Skip = skip }
}

// WithDisposable is the inverse of WithSkip.
func WithDisposable(disposable bool) Option {
	return func(s *Settings) { s.Skip = !disposable }
}

func WithDemo(demo bool) Option {
	return func(s *Settings) { s.Demo = demo }
}

func WithDemoPasswords(passwords ...string) Option {
	return func(s *Settings) { s.DemoPasswords = slices.Clone(passwords) }
}

// ExpiresIn is the logical validity window of a record.
func (s Settings) ExpiresIn() time.Duration {
	return time.Duration(s.Expires) * time.Minute
}

// StoreTTL is how long the store keeps a record or attempt counter. It
// outlives ExpiresIn so an expired record can still be told apart from a
// missing one.
func (s Settings) StoreTTL() time.Duration {
	return 3 * s.ExpiresIn()
}

// RecordKey is the store key of the record bound to id.
func (s Settings) RecordKey(id string) string {
	return s.Prefix + id
}

// AttemptKey is the store key of the attempt counter bound to id.
func (s Settings) AttemptKey(id string) string {
	return s.Prefix + "_attempt_" + id
}

// IsDemoPassword reports whether password bypasses validation.
func (s Settings) IsDemoPassword(password string) bool {
	return s.Demo && lo.Contains(s.DemoPasswords, password)
}

// Normalize applies the case policy to a generated or submitted password.
func (s Settings) Normalize(password string) string {
	if s.Sensitive {
		return password
	}
	return strings.ToUpper(password)
}

// PasswordLength is the length of a generated password, separators included.
func (s Settings) PasswordLength() int {
	if len(s.Length) == 0 {
		return 0
	}
	sep := s.Separator
	if sep == "" {
		sep = otp.DefaultSeparator
	}
	return lo.Sum(s.Length) + (len(s.Length)-1)*len([]rune(sep))
}

// Shape converts s into a generator shape.
func (s Settings) Shape() otp.Shape {
	return otp.Shape{
		Format:    s.Format,
		Charset:   s.Customize,
		Lengths:   s.Length,
		Separator: s.Separator,
		Sensitive: s.Sensitive,
	}
}
