package service

import "errors"

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrMemberInactive      = errors.New("member is inactive")
	ErrItemNotHeld         = errors.New("item is not issued to member")
	ErrDuplicateMobile     = errors.New("mobile number already registered")
	ErrDuplicateItemCode   = errors.New("item code already exists")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrLastAdmin           = errors.New("cannot remove the last admin")
	ErrSettingsMissing     = errors.New("club settings are not configured")
	ErrMemberIDExhausted   = errors.New("could not allocate a member id")
)
