package login

import "errors"

var (
	ErrNotLoginRequest = errors.New("packet is not a LOGIN_REQUEST")
	ErrSessionNotFound = errors.New("session not found")
)
