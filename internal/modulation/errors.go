package modulation

import "errors"

var (
	// ErrEmptySchedule indicates a schedule built without breakpoints.
	ErrEmptySchedule = errors.New("modulation: schedule has no breakpoints")

	// ErrUnorderedSchedule indicates breakpoints that are not strictly ascending.
	ErrUnorderedSchedule = errors.New("modulation: schedule breakpoints not strictly ascending")

	// ErrInvalidWindow indicates a window whose end precedes its start.
	ErrInvalidWindow = errors.New("modulation: window end before start")
)
