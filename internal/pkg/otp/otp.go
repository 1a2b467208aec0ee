package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Format selects the character set a password is sampled from.
type Format string

const (
	// FormatNumeric samples from 0-9.
	FormatNumeric Format = "numeric"
	// FormatNumericNoZero samples from 1-9.
	FormatNumericNoZero Format = "numeric-no-zero"
	// FormatString samples from an alphanumeric set without look-alike characters.
	FormatString Format = "string"
	// FormatCustomize samples from the caller supplied charset.
	FormatCustomize Format = "customize"
)

const (
	charsetNumeric         = "0123456789"
	charsetNumericNoZero   = "123456789"
	charsetStringSensitive = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"
	charsetStringUpper     = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// DefaultSeparator joins the segments of a multi-length password.
const DefaultSeparator = "-"

// ErrGeneration indicates the password could not be produced from the given format.
var ErrGeneration = errors.New("otp: fail to generate password, please check the format is correct")

// Shape describes what a generated password looks like.
type Shape struct {
	// Format selects the character set.
	Format Format
	// Charset is used when Format is FormatCustomize.
	Charset string
	// Lengths holds one length per segment.
	Lengths []int
	// Separator joins segments. Empty means DefaultSeparator.
	Separator string
	// Sensitive selects the mixed-case alphabet for FormatString.
	Sensitive bool
}

// Generator produces passwords.
type Generator interface {
	// Generate returns a new password built from shape.
	Generate(shape Shape) (string, error)
}

// Random implements Generator on top of crypto/rand.
type Random struct{}

// NewRandom returns a crypto/rand backed generator.
func NewRandom() *Random {
	return &Random{}
}

// Generate returns a new password built from shape.
//
// Each segment of length L is taken from a shuffled buffer made by repeating
// the charset until it holds more than L characters; the first character of
// the shuffled buffer is never used.
func (g *Random) Generate(shape Shape) (string, error) {
	charset, err := Charset(shape.Format, shape.Charset, shape.Sensitive)
	if err != nil {
		return "", err
	}

	if len(shape.Lengths) == 0 {
		return "", fmt.Errorf("%w: length is required", ErrGeneration)
	}

	sep := shape.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	segments := make([]string, 0, len(shape.Lengths))
	for _, length := range shape.Lengths {
		if length < 1 {
			return "", fmt.Errorf("%w: length must be positive, got %d", ErrGeneration, length)
		}

		segment, err := g.segment(charset, length)
		if err != nil {
			return "", err
		}
		segments = append(segments, segment)
	}

	return strings.Join(segments, sep), nil
}

func (g *Random) segment(charset []rune, length int) (string, error) {
	repeat := length/len(charset) + 1

	buf := make([]rune, 0, repeat*len(charset))
	for range repeat {
		buf = append(buf, charset...)
	}

	if err := shuffle(buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return string(buf[1 : length+1]), nil
}

// Charset resolves the alphabet for a format.
func Charset(format Format, custom string, sensitive bool) ([]rune, error) {
	var charset string
	switch format {
	case FormatNumeric:
		charset = charsetNumeric
	case FormatNumericNoZero:
		charset = charsetNumericNoZero
	case FormatString:
		charset = charsetStringUpper
		if sensitive {
			charset = charsetStringSensitive
		}
	case FormatCustomize:
		if custom == "" {
			return nil, fmt.Errorf("%w: customize format requires a charset", ErrGeneration)
		}
		charset = custom
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrGeneration, format)
	}

	return []rune(charset), nil
}

// IsFormat reports whether s names a supported format.
func IsFormat(s string) bool {
	switch Format(s) {
	case FormatNumeric, FormatNumericNoZero, FormatString, FormatCustomize:
		return true
	default:
		return false
	}
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(buf []rune) error {
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := int(n.Int64())
		buf[i], buf[j] = buf[j], buf[i]
	}

	return nil
}
