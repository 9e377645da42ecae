package domain

import "errors"

// Domain errors. Repositories and services return these so transports can
// map them to status codes without string matching.

// User and session errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Project errors
var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// Task errors
var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrTaskTitleRequired       = errors.New("task title is required")
	ErrTaskDescriptionRequired = errors.New("task description is required")
	ErrTaskAssigneeRequired    = errors.New("task assignee is required")
	ErrTaskDueDateRequired     = errors.New("task due date is required")
	ErrTaskStatusInvalid       = errors.New("invalid task status")
)

// ErrNotOwner is returned when an authenticated caller attempts to mutate a
// record owned by someone else.
var ErrNotOwner = errors.New("caller is not the owner")
