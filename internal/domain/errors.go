package domain

import "errors"

var (
	ErrUnknownAmbassador      = errors.New("unknown ambassador")
	ErrUnknownPartner         = errors.New("unknown partner")
	ErrUnknownRequest         = errors.New("unknown or already resolved request")
	ErrInvalidLevel           = errors.New("level must be between 1 and 5")
	ErrInvalidActivity        = errors.New("activity deltas must be non-negative")
	ErrAmbassadorNotQualified = errors.New("ambassador not qualified to introduce partners")
	ErrInvalidCandidate       = errors.New("invalid candidate partner")
	ErrInvalidAmbassador      = errors.New("invalid ambassador")
	ErrModelMismatch          = errors.New("operation not allowed for partner distribution model")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrDuplicate              = errors.New("record already exists")
)
