package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oasforge/oasforge/oaserrors"
)

// InvalidParam names a request parameter that failed validation.
type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// APIError implements error and Problem Details (RFC 7807).
type APIError struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail"`
	Instance      string         `json:"instance,omitempty"`
	InvalidParams []InvalidParam `json:"invalidParams,omitempty"`
}

func (e APIError) Error() string { return e.Detail }

func statusType(status int) string {
	return "https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Status/" + strconv.Itoa(status)
}

// NewBadRequest builds a 400 problem. instance may carry the offending URL.
func NewBadRequest(instance, detail string, params ...InvalidParam) APIError {
	return APIError{
		Type:          statusType(http.StatusBadRequest),
		Title:         "Bad Request",
		Status:        http.StatusBadRequest,
		Detail:        detail,
		Instance:      problemInstance(instance),
		InvalidParams: params,
	}
}

// NewNotFound builds a 404 problem.
func NewNotFound(instance, detail string) APIError {
	return APIError{
		Type:     statusType(http.StatusNotFound),
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: problemInstance(instance),
	}
}

// NewBadGateway builds a 502 problem for upstream fetch failures.
func NewBadGateway(instance, detail string) APIError {
	return APIError{
		Type:     statusType(http.StatusBadGateway),
		Title:    "Bad Gateway",
		Status:   http.StatusBadGateway,
		Detail:   detail,
		Instance: problemInstance(instance),
	}
}

// NewInternalServerError builds a 500 problem.
func NewInternalServerError(detail string) APIError {
	return APIError{
		Type:     statusType(http.StatusInternalServerError),
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: problemInstance(""),
	}
}

// problemInstance keeps the caller's URI when there is one and otherwise
// mints a URN so each occurrence stays traceable in logs.
func problemInstance(instance string) string {
	if instance != "" {
		return instance
	}
	return "urn:uuid:" + uuid.NewString()
}

// problemFromError maps the typed engine errors onto problem responses.
// Client-side document defects are 400s, unreachable upstreams are 502s,
// anything unrecognized is a 500.
func problemFromError(err error, instance string) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, oaserrors.ErrFetchFailed):
		return NewBadGateway(instance, err.Error())
	case errors.Is(err, oaserrors.ErrEmptyDocument),
		errors.Is(err, oaserrors.ErrExternalDocumentInvalid),
		errors.Is(err, oaserrors.ErrInvalidReference),
		errors.Is(err, oaserrors.ErrPointerNotFound),
		errors.Is(err, oaserrors.ErrVersionFieldMissing),
		errors.Is(err, oaserrors.ErrUnsupportedVersion):
		return NewBadRequest(instance, err.Error())
	default:
		return NewInternalServerError(err.Error())
	}
}

// writeProblem renders an APIError as application/problem+json.
func writeProblem(c *gin.Context, apiErr APIError) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
