package signer

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s := New("test-secret", 0)

	for _, id := range []string{
		"42",
		"b4b8cfce-5b9a-4d7a-9a53-4f2f5a6f2a10",
		"contact|with|pipes",
	} {
		token := s.Sign(id)
		got, err := s.Verify(token)
		require.NoError(t, err, "token for %q", id)
		assert.Equal(t, id, got)
	}
}

func TestTokenIsURLSafe(t *testing.T) {
	s := New("test-secret", 0)
	token := s.Sign("b4b8cfce-5b9a-4d7a-9a53-4f2f5a6f2a10")

	assert.Equal(t, token, url.PathEscape(token))
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "+")
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := New("test-secret", 0)
	token := s.Sign("42")

	// Flip every character one at a time; none may verify.
	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == token {
			continue
		}
		_, err := s.Verify(string(mutated))
		assert.ErrorIs(t, err, ErrInvalidToken, "mutation at index %d", i)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	token := New("key-one", 0).Sign("42")

	_, err := New("key-two", 0).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	s := New("test-secret", 0)

	for _, token := range []string{
		"",
		"garbage-token",
		"no-signature.",
		".no-payload",
		"!!!.###",
		strings.Repeat("a", 200),
	} {
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestMaxAge(t *testing.T) {
	fresh := New("test-secret", time.Hour)
	token := fresh.Sign("42")

	id, err := fresh.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	// A signer with a tiny max age sees the same token as expired.
	expired := New("test-secret", time.Nanosecond)
	time.Sleep(2 * time.Millisecond)
	_, err = expired.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Zero max age means age never fails verification.
	eternal := New("test-secret", 0)
	_, err = eternal.Verify(token)
	assert.NoError(t, err)
}
