package services

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrEmptyContent       = errors.New("message content cannot be empty")
	ErrDirectParticipants = errors.New("non-group conversations must have exactly one other participant")
	ErrNotGroup           = errors.New("cannot add participants to non-group conversations")
	ErrAlreadyParticipant = errors.New("user is already a participant in this conversation")
	ErrAlreadyMember      = errors.New("already a member of this community")
	ErrNotMember          = errors.New("not a member of this community")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrNotRegistered      = errors.New("not registered for this event")
	ErrAssistantDisabled  = errors.New("assistant is not configured")
)
