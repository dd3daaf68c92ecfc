package services

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrNoAnalysis       = errors.New("no analysis stored for mailbox")
)
