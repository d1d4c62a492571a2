package domain

import "errors"

var (
	ErrUpstream           = errors.New("status upstream failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStoreUnavailable   = errors.New("config store unavailable")
	ErrKeyNotFound        = errors.New("key not found")
	ErrTokenNotConfigured = errors.New("telegram token not configured")
)
