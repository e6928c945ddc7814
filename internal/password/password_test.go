package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storeauth/internal/model"
)

func testCodec() *Codec {
	return New(Params{Time: 1, MemKiB: 8 * 1024, Par: 1})
}

func TestCodec_HashVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	c := testCodec()
	for _, p := range []string{"secret-password", "", "pässwörd with spaces", strings.Repeat("x", 200)} {
		stored, err := c.Hash(p)
		require.NoError(t, err)
		assert.NoError(t, c.Verify(p, stored), "password %q", p)
		assert.True(t, c.Matches(p, stored))
	}
}

func TestCodec_Verify_WrongPassword(t *testing.T) {
	t.Parallel()

	c := testCodec()
	stored, err := c.Hash("correct horse")
	require.NoError(t, err)

	err = c.Verify("correct horse ", stored)
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.False(t, c.Matches("Correct horse", stored))
}

func TestCodec_Hash_FreshSalt(t *testing.T) {
	t.Parallel()

	c := testCodec()
	a, err := c.Hash("same")
	require.NoError(t, err)
	b, err := c.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, strings.Split(a, ":"), 2)
}

func TestCodec_Verify_Malformed(t *testing.T) {
	t.Parallel()

	c := testCodec()
	tests := []struct {
		name   string
		stored string
	}{
		{name: "no password set", stored: ""},
		{name: "no separator", stored: "abcdef"},
		{name: "empty salt", stored: ":aGFzaA"},
		{name: "empty hash", stored: "c2FsdA:"},
		{name: "too many parts", stored: "a:b:c"},
		{name: "bad base64", stored: "!!!:???"},
		{name: "short hash", stored: "c2FsdA:aGFzaA"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := c.Verify("anything", tt.stored)
			require.ErrorIs(t, err, model.ErrInvalidCredentials)
		})
	}
}

func TestCodec_DifferentParamsDoNotMatch(t *testing.T) {
	t.Parallel()

	stored, err := testCodec().Hash("pw")
	require.NoError(t, err)

	other := New(Params{Time: 2, MemKiB: 8 * 1024, Par: 1})
	assert.ErrorIs(t, other.Verify("pw", stored), model.ErrInvalidCredentials)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := New(Params{})
	assert.Equal(t, DefaultParams(), c.params)
}
