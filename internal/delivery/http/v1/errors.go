package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgNotAuthenticated   = "Authentication credentials were not provided."
	msgTokenNotValid      = "Given token not valid for any token type"
	msgForbidden          = "You do not have permission to perform this action."
	msgNotFound           = "Not found."
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

// bindPartialJSON binds a partial update body into obj. An empty body is a
// valid update that changes nothing.
func bindPartialJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
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

func newNotFoundError() apiError {
	return newAPIError(http.StatusNotFound, msgNotFound)
}

// abortWithServiceError writes the response for an error returned by a
// service. Validation errors become a field-keyed body, unknown errors a
// bare 500.
func (h *handlerImpl) abortWithServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrAuthentication):
		abort(c, newUnauthorizedError(msgInvalidCredentials))
	case errors.Is(err, services.ErrTokenMissing):
		abort(c, newUnauthorizedError(msgNotAuthenticated))
	case errors.Is(err, services.ErrUnauthenticated):
		abort(c, newUnauthorizedError(msgTokenNotValid))
	case errors.Is(err, services.ErrForbidden):
		abort(c, newAPIError(http.StatusForbidden, msgForbidden))
	case errors.Is(err, services.ErrNotFound):
		abort(c, newNotFoundError())
	case errors.Is(err, services.ErrInvalidToken):
		abort(c, newBadRequestError(msgInvalidToken))
	default:
		h.logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("unexpected service error")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
