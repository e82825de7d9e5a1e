package router

import (
	"errors"
	"fmt"
)

// UnsupportedTaskTypeError: the task type has no configured profile.
type UnsupportedTaskTypeError struct {
	TaskType TaskType
}

func (e *UnsupportedTaskTypeError) Error() string {
	return fmt.Sprintf("unsupported task type %q", e.TaskType)
}

func IsUnsupportedTaskType(err error) bool {
	var e *UnsupportedTaskTypeError
	return errors.As(err, &e)
}

// NoAvailableModelError: every candidate's provider is disabled or missing
// credentials after availability filtering.
type NoAvailableModelError struct {
	TaskType TaskType
	Checked  []string
}

func (e *NoAvailableModelError) Error() string {
	return fmt.Sprintf("no available model for task %q (providers checked: %v)", e.TaskType, e.Checked)
}

func IsNoAvailableModel(err error) bool {
	var e *NoAvailableModelError
	return errors.As(err, &e)
}
