package service

import "github.com/pkg/errors"

var (
	ErrScreenNotFound     = errors.New("screen not found")
	ErrMenuNotFound       = errors.New("menu not found")
	ErrLinkNotFound       = errors.New("menu screen link not found")
	ErrGrantNotFound      = errors.New("grant not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrLinkExists         = errors.New("screen already linked to menu")
	ErrUnknownComponent   = errors.New("unknown component")
	ErrInvalidScreenPath  = errors.New("screen path must start with /")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
)
