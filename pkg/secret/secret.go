// Package secret creates shared TOTP secrets and converts them to and from the
// textual forms authenticator apps accept.
package secret

import (
	cryptoRand "crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Size is a secret length in bytes. The three values line up with the digest
// sizes of SHA1, SHA256 and SHA512.
type Size int

const (
	SizeDefault Size = 20
	SizeMedium  Size = 32
	SizeLarge   Size = 64
)

var ErrInvalidSize = errors.New("secret size must be 20, 32 or 64 bytes")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// ParseSize accepts the byte count as used in config files and flags.
func ParseSize(n int) (Size, error) {
	switch Size(n) {
	case SizeDefault, SizeMedium, SizeLarge:
		return Size(n), nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
}

// Generate reads size bytes from randSrc. A nil randSrc means crypto/rand and
// a non-positive size means SizeDefault.
func Generate(randSrc io.Reader, size Size) ([]byte, error) {
	if randSrc == nil {
		randSrc = cryptoRand.Reader
	}
	if size <= 0 {
		size = SizeDefault
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(randSrc, buf); err != nil {
		return nil, fmt.Errorf("read random secret: %w", err)
	}
	return buf, nil
}

// ToBase32 encodes without padding, the form otpauth URLs carry.
func ToBase32(secret []byte) string {
	return b32.EncodeToString(secret)
}

// FromBase32 is lenient about case, spaces, dashes and trailing padding.
func FromBase32(s string) ([]byte, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.TrimRight(normalized, "=")
	data, err := b32.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("base32 decode failed: %w", err)
	}
	return data, nil
}

func ToHex(secret []byte) string {
	return hex.EncodeToString(secret)
}

func FromHex(s string) ([]byte, error) {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(normalized)%2 == 1 {
		normalized = "0" + normalized
	}
	data, err := hex.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("hex decode failed: %w", err)
	}
	return data, nil
}
