package token

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storeauth/internal/model"
)

var (
	sharedKeysOnce sync.Once
	sharedKeys     *KeySet
)

func testKeys(t *testing.T) *KeySet {
	t.Helper()
	sharedKeysOnce.Do(func() {
		ks, err := GenerateKeySet()
		if err != nil {
			panic(err)
		}
		sharedKeys = ks
	})
	return sharedKeys
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func payload() model.TokenPayload {
	return model.TokenPayload{SubjectID: "u1", Role: model.RoleUser, OwnedResourceIDs: []string{"unit-1", "unit-2"}}
}

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	t.Parallel()

	clock := newClock()
	j := NewJWT(testKeys(t), WithClock(clock.Now))

	access, err := j.IssueAccessToken(payload())
	require.NoError(t, err)

	got, err := j.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.SubjectID)
	assert.Equal(t, model.RoleUser, got.Role)
	assert.Equal(t, []string{"unit-1", "unit-2"}, got.OwnedResourceIDs)
	assert.WithinDuration(t, clock.Now(), got.IssuedAt, 0)
	assert.WithinDuration(t, clock.Now().Add(10*time.Minute), got.ExpiresAt, 0)
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	t.Parallel()

	clock := newClock()
	j := NewJWT(testKeys(t), WithClock(clock.Now))

	refresh, err := j.IssueRefreshToken(payload())
	require.NoError(t, err)

	got, err := j.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.SubjectID)
	assert.WithinDuration(t, clock.Now().Add(30*24*time.Hour), got.ExpiresAt, 0)
	assert.True(t, got.ExpiresAt.After(got.IssuedAt))
}

func TestJWT_Algorithms(t *testing.T) {
	t.Parallel()

	j := NewJWT(testKeys(t))

	access, err := j.IssueAccessToken(payload())
	require.NoError(t, err)
	refresh, err := j.IssueRefreshToken(payload())
	require.NoError(t, err)

	for tokenString, alg := range map[string]string{access: "ES384", refresh: "ES512"} {
		tok, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
		require.NoError(t, err)
		assert.Equal(t, alg, tok.Method.Alg())
	}
}

func TestJWT_AccessToken_Expiry(t *testing.T) {
	t.Parallel()

	clock := newClock()
	j := NewJWT(testKeys(t), WithClock(clock.Now))

	access, err := j.IssueAccessToken(payload())
	require.NoError(t, err)

	clock.Advance(9*time.Minute + 59*time.Second)
	_, err = j.VerifyAccessToken(access)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = j.VerifyAccessToken(access)
	require.ErrorIs(t, err, model.ErrTokenExpired)
	assert.NotErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_RefreshToken_Expiry(t *testing.T) {
	t.Parallel()

	clock := newClock()
	j := NewJWT(testKeys(t), WithClock(clock.Now))

	refresh, err := j.IssueRefreshToken(payload())
	require.NoError(t, err)

	clock.Advance(29 * 24 * time.Hour)
	_, err = j.VerifyRefreshToken(refresh)
	require.NoError(t, err)

	clock.Advance(24*time.Hour + time.Second)
	_, err = j.VerifyRefreshToken(refresh)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWT_CrossKeyRejection(t *testing.T) {
	t.Parallel()

	j := NewJWT(testKeys(t))

	access, err := j.IssueAccessToken(payload())
	require.NoError(t, err)
	refresh, err := j.IssueRefreshToken(payload())
	require.NoError(t, err)

	_, err = j.VerifyRefreshToken(access)
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	_, err = j.VerifyAccessToken(refresh)
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	// Right algorithm, wrong key.
	_, err = j.Verify(access, testKeys(t).Refresh.Public, AccessMethod)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_ForeignKeyRejected(t *testing.T) {
	t.Parallel()

	other, err := GenerateKeySet()
	require.NoError(t, err)

	forged, err := NewJWT(other).IssueAccessToken(payload())
	require.NoError(t, err)

	_, err = NewJWT(testKeys(t)).VerifyAccessToken(forged)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_Verify_Malformed(t *testing.T) {
	t.Parallel()

	j := NewJWT(testKeys(t))

	access, err := j.IssueAccessToken(payload())
	require.NoError(t, err)
	parts := strings.Split(access, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, tokenString := range map[string]string{
		"empty":    "",
		"garbage":  "not.a.token",
		"tampered": tampered,
		"hmac":     hs,
	} {
		_, err := j.VerifyAccessToken(tokenString)
		assert.ErrorIs(t, err, model.ErrTokenInvalid, name)
	}
}

func TestJWT_Verify_RequiresSubjectAndExpiry(t *testing.T) {
	t.Parallel()

	keys := testKeys(t)
	j := NewJWT(keys)

	noSubject, err := jwt.NewWithClaims(AccessMethod, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString(keys.Access.Private)
	require.NoError(t, err)
	_, err = j.VerifyAccessToken(noSubject)
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	noExpiry, err := jwt.NewWithClaims(AccessMethod, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(keys.Access.Private)
	require.NoError(t, err)
	_, err = j.VerifyAccessToken(noExpiry)
	require.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestJWT_Issue_RequiresSubject(t *testing.T) {
	t.Parallel()

	j := NewJWT(testKeys(t))
	_, err := j.IssueAccessToken(model.TokenPayload{Role: model.RoleAdmin})
	require.Error(t, err)
	_, err = j.IssueRefreshToken(model.TokenPayload{})
	require.Error(t, err)
}

func TestJWT_ConcurrentUse(t *testing.T) {
	t.Parallel()

	j := NewJWT(testKeys(t))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := j.IssueAccessToken(payload())
			assert.NoError(t, err)
			_, err = j.VerifyAccessToken(tok)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
