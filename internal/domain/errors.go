package domain

import "errors"

var (
	// ErrUserNotFound — пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict — username или email уже заняты.
	ErrConflict = errors.New("username or email already taken")
	// ErrUnauthenticated — запрос без идентичности вызывающего.
	ErrUnauthenticated = errors.New("caller identity is missing")
)
