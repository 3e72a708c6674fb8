package service

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotParticipant   = errors.New("caller is not a participant of the room")
	ErrInsufficientRole = errors.New("role does not allow writing")
	ErrOwnerRequired    = errors.New("only room owners can manage participants")
	ErrInvalidRole      = errors.New("unknown participant role")
	ErrParentMismatch   = errors.New("parent comment belongs to a different thread")

	ErrInvalidSeverity = errors.New("unknown rule severity")
	ErrInvalidPattern  = errors.New("rule pattern does not compile")

	ErrInvalidState   = errors.New("invalid or expired oauth state")
	ErrExchangeFailed = errors.New("provider returned no access token")
)
