package totp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// Algorithm selects the HMAC variant used to derive codes.
type Algorithm uint8

const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

var algorithmNames = map[Algorithm]string{
	SHA1:   "SHA1",
	SHA256: "SHA256",
	SHA512: "SHA512",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// Valid reports whether a names one of the supported HMAC variants.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// Hash returns the digest constructor for hmac.New.
func (a Algorithm) Hash() (func() hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, a)
	}
}

// Size is the digest length in bytes.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	default:
		return 0
	}
}

// ParseAlgorithm accepts "SHA1", "sha256", "HmacSHA512" and similar spellings.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, "HMAC")
	normalized = strings.TrimPrefix(normalized, "-")
	normalized = strings.ReplaceAll(normalized, "-", "")
	for alg, n := range algorithmNames {
		if n == normalized {
			return alg, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
