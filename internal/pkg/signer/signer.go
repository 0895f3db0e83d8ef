package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken covers every verification failure: tampered payload,
// wrong key, malformed encoding, or an expired issued-at when a max age
// is configured. Callers must not distinguish between these cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// Signer mints and verifies unsubscribe tokens. A token binds a single
// subscriber id under an HMAC-SHA256 signature and is URL-safe, so it can
// be embedded in a path segment. The key is injected at construction and
// never rotated at runtime.
type Signer struct {
	key    []byte
	maxAge time.Duration
}

// New creates a Signer with the given secret key. maxAge of zero disables
// expiry: verification then never fails merely due to token age.
func New(secret string, maxAge time.Duration) *Signer {
	return &Signer{key: []byte(secret), maxAge: maxAge}
}

// Sign mints a token over the subscriber id. The payload carries the id
// and the mint time, so expiry can be enabled later without a format change.
func (s *Signer) Sign(subscriberID string) string {
	payload := fmt.Sprintf("%s|%d", subscriberID, time.Now().Unix())
	return encode([]byte(payload)) + "." + encode(s.sum(payload))
}

// Verify validates a token and returns the subscriber id it was minted
// over. Any failure is reported as ErrInvalidToken.
func (s *Signer) Verify(token string) (string, error) {
	dot := strings.LastIndexByte(token, '.')
	if dot <= 0 || dot == len(token)-1 {
		return "", ErrInvalidToken
	}
	payloadRaw, err := decode(token[:dot])
	if err != nil {
		return "", ErrInvalidToken
	}
	sig, err := decode(token[dot+1:])
	if err != nil {
		return "", ErrInvalidToken
	}
	payload := string(payloadRaw)
	if !hmac.Equal(sig, s.sum(payload)) {
		return "", ErrInvalidToken
	}

	sep := strings.LastIndexByte(payload, '|')
	if sep <= 0 {
		return "", ErrInvalidToken
	}
	issuedAt, err := strconv.ParseInt(payload[sep+1:], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if s.maxAge > 0 && time.Since(time.Unix(issuedAt, 0)) > s.maxAge {
		return "", ErrInvalidToken
	}
	return payload[:sep], nil
}

func (s *Signer) sum(payload string) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func encode(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func decode(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }
