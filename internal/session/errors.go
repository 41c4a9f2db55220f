package session

import "errors"

var (
	// ErrSessionNotFound сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionState операция недопустима для текущего шага сессии
	ErrInvalidSessionState = errors.New("operation is not valid for current session step")
)
