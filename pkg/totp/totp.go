// Package totp derives and checks RFC 6238 time-based one-time passwords.
//
// An Engine is built once from a Config and is safe for concurrent use: every
// call works on its own interval counter, digest and output string.
package totp

import (
	"crypto/hmac"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	DefaultAlgorithm = SHA1
	DefaultInterval  = 30
	DefaultLength    = 6
	DefaultSteps     = 1
	DefaultT0        = 0

	MaxLength = 8
)

var digitsPower = [MaxLength + 1]uint32{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000}

var (
	ErrInvalidLength    = errors.New("totp: length must be between 1 and 8")
	ErrInvalidInterval  = errors.New("totp: interval must be positive")
	ErrUnknownAlgorithm = errors.New("totp: unknown algorithm")
	ErrEmptySecret      = errors.New("totp: secret is empty")
	ErrOutOfRange       = errors.New("totp: value has no positive counterpart")
)

// Config holds the engine settings. Numeric fields are normalized to their
// absolute value by New.
type Config struct {
	Algorithm Algorithm
	// Interval is the step duration in seconds.
	Interval int64
	// Length is the number of digits in a code (1..8).
	Length int
	// Steps is how many past intervals Validate accepts besides the current one.
	Steps int
	// T0 is the time origin in Unix seconds.
	T0 int64
}

// DefaultConfig matches what Google Authenticator and most apps expect.
func DefaultConfig() Config {
	return Config{
		Algorithm: DefaultAlgorithm,
		Interval:  DefaultInterval,
		Length:    DefaultLength,
		Steps:     DefaultSteps,
		T0:        DefaultT0,
	}
}

func (c Config) normalize() Config {
	c.Interval = abs64(c.Interval)
	c.Length = abs(c.Length)
	c.Steps = abs(c.Steps)
	c.T0 = abs64(c.T0)
	return c
}

// Validate normalizes c and reports the first configuration error.
func (c Config) Validate() error {
	n := c.normalize()
	if n.Length < 1 || n.Length > MaxLength {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, c.Length)
	}
	// abs of the most negative integer is itself.
	if n.Interval <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, c.Interval)
	}
	if n.Steps < 0 {
		return fmt.Errorf("%w: steps %d", ErrOutOfRange, c.Steps)
	}
	if n.T0 < 0 {
		return fmt.Errorf("%w: t0 %d", ErrOutOfRange, c.T0)
	}
	if !n.Algorithm.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, n.Algorithm)
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for Generate, Validate and CurrentTimeInterval.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine generates and validates codes for one Config.
type Engine struct {
	cfg Config
	now func() time.Time
}

// New validates cfg and returns an engine using its normalized form.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg.normalize(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustNew is New for configurations known to be valid.
func MustNew(cfg Config, opts ...Option) *Engine {
	e, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// TimeIntervalMillis maps a Unix time in milliseconds to its interval counter.
func (e *Engine) TimeIntervalMillis(ms int64) int64 {
	return (ms/1000 - e.cfg.T0) / e.cfg.Interval
}

// TimeInterval is TimeIntervalMillis for t.
func (e *Engine) TimeInterval(t time.Time) int64 {
	return e.TimeIntervalMillis(t.UnixMilli())
}

// CurrentTimeInterval is the interval counter at the engine clock's now.
func (e *Engine) CurrentTimeInterval() int64 {
	return e.TimeInterval(e.now())
}

// Generate returns the code for the current interval.
func (e *Engine) Generate(secret []byte) (string, error) {
	return e.GenerateOTP(secret, e.CurrentTimeInterval())
}

// GenerateAt returns the code for the interval containing t.
func (e *Engine) GenerateAt(secret []byte, t time.Time) (string, error) {
	return e.GenerateOTP(secret, e.TimeInterval(t))
}

// GenerateMillis returns the code for a Unix time in milliseconds.
func (e *Engine) GenerateMillis(secret []byte, ms int64) (string, error) {
	return e.GenerateOTP(secret, e.TimeIntervalMillis(ms))
}

// GenerateOTP computes the HOTP value of secret at the given interval counter.
func (e *Engine) GenerateOTP(secret []byte, counter int64) (string, error) {
	return HOTP(e.cfg.Algorithm, secret, counter, e.cfg.Length)
}

// HOTP implements RFC 4226 with a configurable hash and digit count.
// Negative counters are encoded in two's complement.
func HOTP(alg Algorithm, secret []byte, counter int64, length int) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	if length < 1 || length > MaxLength {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	newHash, err := alg.Hash()
	if err != nil {
		return "", err
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))
	mac := hmac.New(newHash, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	return format(truncate(sum)%digitsPower[length], length), nil
}

// truncate is the dynamic truncation of RFC 4226 section 5.3.
func truncate(sum []byte) uint32 {
	offset := sum[len(sum)-1] & 0x0F
	return binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF
}

func format(otp uint32, length int) string {
	const zeros = "00000000"
	s := strconv.FormatUint(uint64(otp), 10)
	if len(s) < length {
		s = zeros[:length-len(s)] + s
	}
	return s
}

// Match describes the outcome of a window search.
type Match struct {
	OK bool
	// Offset is the number of intervals behind the current one that matched.
	Offset int
	// Counter is the interval counter that produced the code.
	Counter int64
}

// Validate checks code against the current interval and Steps past ones.
func (e *Engine) Validate(secret []byte, code string) (bool, error) {
	return e.ValidateAt(secret, code, e.now())
}

// ValidateAt is Validate as of t.
func (e *Engine) ValidateAt(secret []byte, code string, t time.Time) (bool, error) {
	m, err := e.Match(secret, code, t)
	return m.OK, err
}

// ValidateMillis is Validate as of a Unix time in milliseconds.
func (e *Engine) ValidateMillis(secret []byte, code string, ms int64) (bool, error) {
	return e.ValidateAt(secret, code, time.UnixMilli(ms))
}

// Match walks the window from the current interval backwards and stops at the
// first interval whose code equals code. Future intervals are never checked.
func (e *Engine) Match(secret []byte, code string, t time.Time) (Match, error) {
	if len(secret) == 0 {
		return Match{}, ErrEmptySecret
	}
	if !wellFormed(code, e.cfg.Length) {
		return Match{}, nil
	}
	itvl := e.TimeInterval(t)
	for i := 0; i <= e.cfg.Steps; i++ {
		counter := itvl - int64(i)
		candidate, err := e.GenerateOTP(secret, counter)
		if err != nil {
			return Match{}, err
		}
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			return Match{OK: true, Offset: i, Counter: counter}, nil
		}
	}
	return Match{}, nil
}

func wellFormed(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
