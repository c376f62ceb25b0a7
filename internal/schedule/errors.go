package schedule

import "errors"

var (
	ErrUnknownPerson       = errors.New("unknown person")
	ErrUnknownWeek         = errors.New("unknown week")
	ErrUnknownProject      = errors.New("unknown project")
	ErrUnknownAssignment   = errors.New("unknown assignment")
	ErrDuplicateAssignment = errors.New("person is already assigned to this project")
	ErrNegativeDays        = errors.New("days must not be negative")
)
