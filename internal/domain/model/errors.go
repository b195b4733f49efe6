package model

import "errors"

var (
	ErrUnknownGroup         = errors.New("unknown group")
	ErrFixtureNotFound      = errors.New("fixture not found")
	ErrInvalidSet           = errors.New("set out of range")
	ErrInvalidSide          = errors.New("side out of range")
	ErrEmptyParticipant     = errors.New("participant name is empty")
	ErrDuplicateParticipant = errors.New("participant already in group")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrUnknownEdit          = errors.New("unknown edit kind")
	ErrEditNotFound         = errors.New("edit not found")
)
