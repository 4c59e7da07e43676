package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-api/internal/services"
)

var (
	errInvalidRequestBody  = errors.New("invalid request body")
	errInvalidQueryParams  = errors.New("invalid query parameters")
	errCredentialsNotFound = errors.New("authentication credentials were not provided")
	errInvalidCredentials  = errors.New("invalid username/password")
	errInvalidToken        = errors.New("invalid or expired token")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func abortWithBindError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		abort(c, newBadRequestError(validationErr.Message))
		return
	}
	abort(c, newBadRequestError(errInvalidRequestBody.Error()))
}

// abortWithServiceError maps a task service error onto a response.
// Unknown errors become a bare 500 so that internals never leak.
func abortWithServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abort(c, newBadRequestError(validationErr.Message))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
