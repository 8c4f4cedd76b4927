package apperror

import "errors"

var (
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrSessionRequired = errors.New("session id is required")
)
