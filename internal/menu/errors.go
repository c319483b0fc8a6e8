package menu

import "errors"

var (
	ErrEmptyMenu      = errors.New("menu has no items")
	ErrDuplicateEntry = errors.New("duplicate menu item")
	ErrInvalidEntry   = errors.New("invalid menu item")
	ErrAliasCollision = errors.New("alias claimed by more than one menu item")
)
