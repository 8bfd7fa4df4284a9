// Package authenticator is the service layer behind the CLI and HTTP API. It
// issues new keys and checks codes against a shared secret.
package authenticator

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gtotp/pkg/logging"
	"gtotp/pkg/otpauth"
	"gtotp/pkg/secret"
	"gtotp/pkg/totp"
)

var (
	ErrEmptyLabel  = errors.New("label is empty")
	ErrEmptySecret = errors.New("secret is empty")
	ErrEmptyCode   = errors.New("code is empty")
	ErrNoEngine    = errors.New("authenticator has no engine")
)

// Key is a freshly issued secret together with everything a client needs to
// enroll it.
type Key struct {
	Label   string
	Host    string
	Secret  []byte
	Encoded string
	URL     string
	QRCode  string
}

type Result struct {
	Valid bool
	// Offset counts intervals behind the current one, only set when Valid.
	Offset  int
	Counter int64
}

// ResponseHandler observes every GenerateKey and VerifySecret outcome.
type ResponseHandler interface {
	OnGenerate(Key)
	OnVerify(Result)
	OnError(error)
}

type nopResponder struct{}

func (nopResponder) OnGenerate(Key)  {}
func (nopResponder) OnVerify(Result) {}
func (nopResponder) OnError(error)   {}

type Options struct {
	Issuer string
	// Host is appended to labels as label@host.
	Host       string
	SecretSize secret.Size
	// Rand defaults to crypto/rand.
	Rand      io.Reader
	Now       func() time.Time
	Responder ResponseHandler
	// QRSize is the PNG edge length in pixels, 0 for the default.
	QRSize int
}

type Authenticator struct {
	engine *totp.Engine
	opts   Options
}

func New(engine *totp.Engine, opts Options) *Authenticator {
	if opts.SecretSize == 0 {
		opts.SecretSize = secret.SizeDefault
		// Match the secret to the HMAC block the engine will key.
		if engine != nil {
			if n := engine.Config().Algorithm.Size(); n > 0 {
				opts.SecretSize = secret.Size(n)
			}
		}
	}
	return &Authenticator{engine: engine, opts: opts}
}

func (a *Authenticator) Engine() *totp.Engine {
	return a.engine
}

func (a *Authenticator) now() time.Time {
	if a.opts.Now != nil {
		return a.opts.Now()
	}
	return time.Now()
}

func (a *Authenticator) responder() ResponseHandler {
	if a.opts.Responder != nil {
		return a.opts.Responder
	}
	return nopResponder{}
}

func (a *Authenticator) fail(err error) error {
	a.responder().OnError(err)
	return err
}

// AccountName is the label as it appears in the otpauth URL.
func (a *Authenticator) AccountName(label string) string {
	label = strings.TrimSpace(label)
	if a.opts.Host == "" || strings.Contains(label, "@") {
		return label
	}
	return label + "@" + a.opts.Host
}

// GenerateKey creates a random secret for label and renders its otpauth URL
// and QR code.
func (a *Authenticator) GenerateKey(label string) (Key, error) {
	if a.engine == nil {
		return Key{}, a.fail(ErrNoEngine)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return Key{}, a.fail(ErrEmptyLabel)
	}
	logging.Debugf("generating %d byte secret for %s", a.opts.SecretSize, label)

	raw, err := secret.Generate(a.opts.Rand, a.opts.SecretSize)
	if err != nil {
		logging.Errorf("generate secret for %s: %v", label, err)
		return Key{}, a.fail(fmt.Errorf("generate secret: %w", err))
	}
	url := otpauth.KeyURL(a.AccountName(label), a.opts.Issuer, raw, a.engine.Config())
	qr, err := otpauth.DataURI(url, a.opts.QRSize)
	if err != nil {
		logging.Errorf("render qr code for %s: %v", label, err)
		return Key{}, a.fail(fmt.Errorf("render qr code: %w", err))
	}
	key := Key{
		Label:   label,
		Host:    a.opts.Host,
		Secret:  raw,
		Encoded: secret.ToBase32(raw),
		URL:     url,
		QRCode:  qr,
	}
	a.responder().OnGenerate(key)
	return key, nil
}

// VerifySecret checks code against secret at the current time. A code that
// does not match is reported through Result.Valid, not as an error.
func (a *Authenticator) VerifySecret(raw []byte, code string) (Result, error) {
	return a.VerifySecretAt(raw, code, a.now())
}

func (a *Authenticator) VerifySecretAt(raw []byte, code string, at time.Time) (Result, error) {
	if a.engine == nil {
		return Result{}, a.fail(ErrNoEngine)
	}
	if len(raw) == 0 {
		return Result{}, a.fail(ErrEmptySecret)
	}
	code = NormalizeCode(code)
	if code == "" {
		return Result{}, a.fail(ErrEmptyCode)
	}
	m, err := a.engine.Match(raw, code, at)
	if err != nil {
		logging.Errorf("verify code: %v", err)
		return Result{}, a.fail(err)
	}
	res := Result{Valid: m.OK, Offset: m.Offset, Counter: m.Counter}
	if res.Valid {
		logging.Debugf("code accepted at interval %d (offset %d)", m.Counter, m.Offset)
	} else {
		logging.Debugf("code rejected")
	}
	a.responder().OnVerify(res)
	return res, nil
}

// NormalizeCode drops surrounding whitespace and the spaces or dashes that
// apps use to group digits ("123 456", "123-456").
func NormalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t', '\n', '\r':
			return -1
		}
		return r
	}, code)
}
