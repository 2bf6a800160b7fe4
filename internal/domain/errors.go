package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
	ErrGithubNotFound     = errors.New("github profile not found")
)

type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ValidationError carries one message per failed field.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Msg)
	}
	return "validation: " + strings.Join(msgs, "; ")
}

func Invalid(param, msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Msg: msg, Param: param, Location: "body"}}}
}
