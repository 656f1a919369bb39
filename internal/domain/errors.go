package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("invalid configuration")
	ErrDelivery      = errors.New("notification delivery failed")
	ErrCorruptState  = errors.New("corrupt state document")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnauthorized  = errors.New("unauthorized")
)
