package domain

import "time"

// TokenPair bundles the credentials returned on login: the bearer access
// token plus the cookie-bound refresh token.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
