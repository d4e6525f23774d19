package service

import "fmt"

// UnknownUserError reports a user identifier that does not resolve to a
// registered user.
type UnknownUserError struct {
	Email string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("user with email %s does not exist", e.Email)
}

// MissingParameterError reports a required parameter that was not supplied.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s parameter is required", e.Name)
}
