package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/construct-tasks/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidTaskID      = errors.New("invalid task id")
	errInvalidDeadline    = errors.New("deadline must be a date in YYYY-MM-DD format")
	errMissingProgress    = errors.New("progress is required")

	errInvalidProgressValue = errors.New("progress must be an integer")
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

// abort writes the error in the {"detail": "..."} shape clients of
// this API already parse.
func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"detail": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

// newServiceError maps a TaskService error onto a status code.
// Unknown errors become a bare 500 so internal details never leak.
func newServiceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return newNotFoundError("Task not found")
	case errors.Is(err, services.ErrInvalidProgress):
		return newBadRequestError("Progress must be between 0 and 100")
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		return newBadRequestError("No fields to update")
	case errors.Is(err, services.ErrInvalidTask):
		return newBadRequestError("Invalid task values")
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
