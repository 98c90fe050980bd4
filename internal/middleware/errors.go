package middleware

import "errors"

var (
	errNoToken   = errors.New("no session token")
	errBadClaims = errors.New("malformed token claims")
)
