package errors

import "errors"

var (
	ErrRefreshCookieMissing = errors.New("refresh token cookie missing")
	ErrTokenRejected        = errors.New("access token rejected")
)
