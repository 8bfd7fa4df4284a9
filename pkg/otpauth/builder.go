// Package otpauth builds and parses otpauth:// provisioning URLs and renders
// them as QR codes for authenticator apps.
package otpauth

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"gtotp/pkg/secret"
	"gtotp/pkg/totp"
)

type Builder struct {
	label  string
	issuer string
	params map[string]string
}

func NewBuilder(label, issuer string, params map[string]string) *Builder {
	if params == nil {
		params = map[string]string{}
	}
	return &Builder{
		label:  label,
		issuer: issuer,
		params: params,
	}
}

// Set adds or replaces a query parameter. Empty values are dropped on output.
func (b *Builder) Set(key, value string) *Builder {
	b.params[key] = value
	return b
}

func (b *Builder) String() string {
	query := url.Values{}
	for k, v := range b.params {
		if v == "" {
			continue
		}
		query.Set(k, v)
	}
	// stable order
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := url.Values{}
	for _, k := range keys {
		values[k] = query[k]
	}
	label := url.PathEscape(b.label)
	if b.issuer != "" {
		label = url.PathEscape(fmt.Sprintf("%s:%s", b.issuer, b.label))
	}
	return fmt.Sprintf("otpauth://totp/%s?%s", label, values.Encode())
}

// KeyURL returns the provisioning URL for secret under the engine settings in
// cfg. T0 and Steps have no otpauth parameter and are not encoded.
func KeyURL(label, issuer string, raw []byte, cfg totp.Config) string {
	return NewBuilder(label, issuer, map[string]string{
		"secret":    secret.ToBase32(raw),
		"issuer":    issuer,
		"algorithm": cfg.Algorithm.String(),
		"digits":    strconv.Itoa(cfg.Length),
		"period":    strconv.FormatInt(cfg.Interval, 10),
	}).String()
}
