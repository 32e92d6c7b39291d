package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/memecontest/backend/src/domain"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// MessageResponse is returned by endpoints that only acknowledge
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError logs err and aborts with the mapped status and body
func respondWithError(c *gin.Context, err error) {
	domainErr := parseDomainError(err)

	// Use the original error message if the domain error has no client message
	message := domainErr.ClientMsg()
	if message == "" {
		message = err.Error()
	}

	response := ErrorResponse{
		Code:    mapDomainErrorToCode(domainErr),
		Message: message,
	}

	if detail := domainErr.Detail(); detail != nil {
		response.Error = detail
	}

	ctx := c.Request.Context()
	event := zerolog.Ctx(ctx).Error()
	if domainErr.HTTPStatus() < 500 {
		event = zerolog.Ctx(ctx).Warn()
	}
	event.
		Err(err).
		Str("function", "respondWithError").
		Int("error_code", response.Code).
		Msg(response.Message)

	_ = c.Error(err)
	c.AbortWithStatusJSON(domainErr.HTTPStatus(), response)
}

// parseDomainError extracts domain error information
func parseDomainError(err error) domain.DomainError {
	var domainError domain.DomainError
	// An empty domain.DomainError yields the INTERNAL_PROCESS defaults.
	_ = errors.As(err, &domainError)
	return domainError
}

// mapDomainErrorToCode maps domain error codes to API response codes
func mapDomainErrorToCode(domainErr domain.DomainError) int {
	switch domainErr.Name() {
	case domain.ErrorCodeParameterInvalid.Name:
		return 1001
	case domain.ErrorCodeResourceNotFound.Name:
		return 1002
	case domain.ErrorCodeResourceConflict.Name:
		return 1003
	case domain.ErrorCodeStorageFailure.Name:
		return 1004
	case domain.ErrorCodeInternalProcess.Name:
		return 1005
	case domain.ErrorCodePersistenceFailure.Name:
		return 1006
	default:
		return 1000 // Generic error code
	}
}
