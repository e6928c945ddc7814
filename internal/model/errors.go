package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers every sign-in failure so callers cannot tell
	// an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid is a signature, format or algorithm failure.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is a correctly signed token past its lifetime.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenMissing means the request carried no token where one was required.
	ErrTokenMissing = errors.New("token is missing")
	// ErrPrincipalNotFound means the token is valid but its account is gone.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrInsufficientRole means the principal lacks the role a route requires.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrRecaptchaRejected means the reCAPTCHA check did not pass.
	ErrRecaptchaRejected = errors.New("recaptcha rejected")
	// ErrEmailTaken means an active account already uses the email.
	ErrEmailTaken = errors.New("email is already taken")
	// ErrInvalidRequest is a malformed or incomplete request body.
	ErrInvalidRequest = errors.New("invalid request")
)
