// Package server provides the HTTP REST API for the HR inbox agent.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/hr-agent/internal/ranking"
	"github.com/jonathan/hr-agent/internal/routing"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// ErrAuthDisabled indicates login was attempted without auth configured
type ErrAuthDisabled struct{}

func (e *ErrAuthDisabled) Error() string {
	return "authentication is not configured on this server"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a dependency the endpoint needs is not configured
type ErrUnavailable struct {
	Dependency string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Dependency)
}

// HTTPStatus returns the appropriate HTTP status code for an error,
// unwrapping as needed.
func HTTPStatus(err error) int {
	var (
		invalidCreds *ErrInvalidCredentials
		validation   *ErrValidation
		authDisabled *ErrAuthDisabled
		unavailable  *ErrUnavailable
		noProfiles   *ranking.NoProfilesError
		routingErr   *routing.RoutingError
	)
	switch {
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &authDisabled), errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &noProfiles):
		return http.StatusNotFound
	case errors.As(err, &routingErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
