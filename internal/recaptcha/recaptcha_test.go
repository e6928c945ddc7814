package recaptcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storeauth/internal/model"
	"github.com/dtroode/storeauth/internal/testutil"
)

func siteverify(t *testing.T, status int, body siteVerifyResponse, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "shh", r.PostForm.Get("secret"))
		assert.Equal(t, "client-response", r.PostForm.Get("response"))

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newVerifier(url string) *Verifier {
	return New(Config{Secret: "shh", MinScore: 0.7, VerifyURL: url}, nil, testutil.MakeNoopLogger())
}

func TestNew_DisabledWithoutSecret(t *testing.T) {
	assert.Nil(t, New(Config{}, nil, testutil.MakeNoopLogger()))
}

func TestVerifier_Verify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    siteVerifyResponse
		wantErr bool
	}{
		{name: "high score", status: http.StatusOK, body: siteVerifyResponse{Success: true, Score: 0.9}},
		{name: "score at threshold", status: http.StatusOK, body: siteVerifyResponse{Success: true, Score: 0.7}, wantErr: true},
		{name: "low score", status: http.StatusOK, body: siteVerifyResponse{Success: true, Score: 0.1}, wantErr: true},
		{name: "not successful", status: http.StatusOK, body: siteVerifyResponse{Success: false, ErrorCodes: []string{"invalid-input-response"}}, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := siteverify(t, tt.status, tt.body, nil)

			err := newVerifier(srv.URL).Verify(context.Background(), "client-response", "10.0.0.1")
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrRecaptchaRejected)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVerifier_EmptyResponse(t *testing.T) {
	var calls atomic.Int32
	srv := siteverify(t, http.StatusOK, siteVerifyResponse{Success: true, Score: 1}, &calls)

	err := newVerifier(srv.URL).Verify(context.Background(), "  ", "")
	assert.ErrorIs(t, err, model.ErrRecaptchaRejected)
	assert.Zero(t, calls.Load())
}

func TestVerifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newVerifier(url).Verify(context.Background(), "client-response", "")
	assert.ErrorIs(t, err, model.ErrRecaptchaRejected)
}

func TestVerifier_BreakerOpensAndFailsClosed(t *testing.T) {
	var calls atomic.Int32
	srv := siteverify(t, http.StatusBadGateway, siteVerifyResponse{}, &calls)

	v := newVerifier(srv.URL)
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, v.Verify(context.Background(), "client-response", ""), model.ErrRecaptchaRejected)
	}
	require.EqualValues(t, 5, calls.Load())

	err := v.Verify(context.Background(), "client-response", "")
	assert.ErrorIs(t, err, model.ErrRecaptchaRejected)
	assert.EqualValues(t, 5, calls.Load(), "open breaker must not reach siteverify")
}

func TestVerifier_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	srv := siteverify(t, http.StatusOK, siteVerifyResponse{Success: true, Score: 0.9}, nil)
	v := newVerifier(srv.URL)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, v.Verify(cancelled, "client-response", ""), context.Canceled)
	}

	assert.NoError(t, v.Verify(context.Background(), "client-response", ""))
}

func TestVerifier_CallerDeadlineMidCallDoesNotTripBreaker(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_ = json.NewEncoder(w).Encode(siteVerifyResponse{Success: true, Score: 0.9})
	}))
	t.Cleanup(slow.Close)
	t.Cleanup(func() { close(release) })

	v := newVerifier(slow.URL)
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		err := v.Verify(ctx, "client-response", "")
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	// swap in a healthy endpoint; a tripped breaker would reject before calling it
	healthy := siteverify(t, http.StatusOK, siteVerifyResponse{Success: true, Score: 0.9}, nil)
	v.cfg.VerifyURL = healthy.URL
	assert.NoError(t, v.Verify(context.Background(), "client-response", ""))
}
