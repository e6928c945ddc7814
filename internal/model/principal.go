package model

// Principal is the identity attached to a request after authentication.
// RefreshToken is set only when the request was authenticated by a refresh token.
type Principal struct {
	User         User
	RefreshToken string
}
