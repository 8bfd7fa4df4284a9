package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gtotp/pkg/secret"
	"gtotp/pkg/totp"
)

const (
	EnvPrefix = "GTOTP"

	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultIssuer          = "gtotp"
	DefaultHost            = "localhost"
	DefaultLogLevel        = "info"
)

var (
	errMissingAddr     = errors.New("server.addr must not be empty")
	errBadTimeout      = errors.New("server timeouts must be positive")
	errMissingIssuer   = errors.New("secret.issuer must not be empty")
	errUnknownLogLevel = errors.New("log.level must be debug, info, warn or error")
)

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// TOTP mirrors totp.Config with the algorithm kept as text for config files.
type TOTP struct {
	Algorithm string `mapstructure:"algorithm"`
	Interval  int64  `mapstructure:"interval"`
	Length    int    `mapstructure:"length"`
	Steps     int    `mapstructure:"steps"`
	T0        int64  `mapstructure:"t0"`
}

type Secret struct {
	Size   int    `mapstructure:"size"`
	Issuer string `mapstructure:"issuer"`
	// Host is appended to account labels as label@host.
	Host string `mapstructure:"host"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	Server Server `mapstructure:"server"`
	TOTP   TOTP   `mapstructure:"totp"`
	Secret Secret `mapstructure:"secret"`
	Log    Log    `mapstructure:"log"`
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"algorithm": "totp.algorithm",
	"interval":  "totp.interval",
	"length":    "totp.length",
	"steps":     "totp.steps",
	"t0":        "totp.t0",
	"size":      "secret.size",
	"issuer":    "secret.issuer",
	"host":      "secret.host",
	"log-level": "log.level",
	"log-file":  "log.file",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("totp.algorithm", totp.DefaultAlgorithm.String())
	v.SetDefault("totp.interval", totp.DefaultInterval)
	v.SetDefault("totp.length", totp.DefaultLength)
	v.SetDefault("totp.steps", totp.DefaultSteps)
	v.SetDefault("totp.t0", totp.DefaultT0)
	v.SetDefault("secret.size", int(secret.SizeDefault))
	v.SetDefault("secret.issuer", DefaultIssuer)
	v.SetDefault("secret.host", DefaultHost)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load merges defaults, the optional config file at path, GTOTP_* environment
// variables and any changed flags in fs, in increasing order of precedence.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		if path == "" {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads a config document of the given type ("yaml", "json", "toml").
func Parse(configType string, r io.Reader) (*Config, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return decode(v)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errMissingAddr
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return errBadTimeout
	}
	if _, err := c.Engine(); err != nil {
		return err
	}
	if _, err := secret.ParseSize(c.Secret.Size); err != nil {
		return err
	}
	if strings.TrimSpace(c.Secret.Issuer) == "" {
		return errMissingIssuer
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: got %q", errUnknownLogLevel, c.Log.Level)
	}
	return nil
}

// Engine converts the totp section into a validated engine configuration.
func (c *Config) Engine() (totp.Config, error) {
	alg, err := totp.ParseAlgorithm(c.TOTP.Algorithm)
	if err != nil {
		return totp.Config{}, err
	}
	cfg := totp.Config{
		Algorithm: alg,
		Interval:  c.TOTP.Interval,
		Length:    c.TOTP.Length,
		Steps:     c.TOTP.Steps,
		T0:        c.TOTP.T0,
	}
	if err := cfg.Validate(); err != nil {
		return totp.Config{}, err
	}
	return cfg, nil
}

func (c *Config) SecretSize() secret.Size {
	size, err := secret.ParseSize(c.Secret.Size)
	if err != nil {
		return secret.SizeDefault
	}
	return size
}
