// Package recaptcha verifies Google reCAPTCHA v3 responses.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// DefaultVerifyURL is Google's siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// errCallerGone marks a call abandoned because the caller's context ended.
// It says nothing about siteverify's health and does not trip the breaker.
var errCallerGone = errors.New("caller went away")

// Config configures a Verifier.
type Config struct {
	Secret    string
	MinScore  float64
	VerifyURL string
	Timeout   time.Duration
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier calls siteverify through a circuit breaker. It fails closed: if
// Google cannot be reached or the breaker is open, the response is rejected.
type Verifier struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

// New creates a Verifier. It returns nil when no secret is configured so that
// callers can treat a nil verifier as "disabled".
func New(cfg Config, client *http.Client, logger *logger.Logger) *Verifier {
	if cfg.Secret == "" {
		return nil
	}
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "recaptcha",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Recaptcha: breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &Verifier{cfg: cfg, client: client, breaker: breaker, logger: logger}
}

// Verify checks response against siteverify. The score must be strictly
// greater than the configured minimum.
func (v *Verifier) Verify(ctx context.Context, response, remoteIP string) error {
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("%w: empty response", model.ErrRecaptchaRejected)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrRecaptchaRejected, err)
	}

	res, err := v.breaker.Execute(func() (interface{}, error) {
		body, err := v.call(ctx, response, remoteIP)
		if err != nil && ctx.Err() != nil {
			return body, fmt.Errorf("%w: %w", errCallerGone, ctx.Err())
		}
		return body, err
	})
	if errors.Is(err, errCallerGone) {
		return fmt.Errorf("%w: %w", model.ErrRecaptchaRejected, err)
	}
	if err != nil {
		v.logger.Error("Recaptcha: verification unavailable",
			"error", err.Error())
		return fmt.Errorf("%w: %w", model.ErrRecaptchaRejected, err)
	}

	body := res.(siteVerifyResponse)
	if !body.Success {
		return fmt.Errorf("%w: %s", model.ErrRecaptchaRejected, strings.Join(body.ErrorCodes, ","))
	}
	if body.Score <= v.cfg.MinScore {
		return fmt.Errorf("%w: score %.2f", model.ErrRecaptchaRejected, body.Score)
	}

	return nil
}

func (v *Verifier) call(ctx context.Context, response, remoteIP string) (siteVerifyResponse, error) {
	form := url.Values{}
	form.Set("secret", v.cfg.Secret)
	form.Set("response", response)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return siteVerifyResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return siteVerifyResponse{}, fmt.Errorf("failed to call siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return siteVerifyResponse{}, fmt.Errorf("siteverify returned %d", resp.StatusCode)
	}

	var body siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return siteVerifyResponse{}, errors.Join(errors.New("failed to decode siteverify response"), err)
	}

	return body, nil
}
