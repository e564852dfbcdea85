package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError pairs a status code with the response body
type HTTPError struct {
	StatusCode int
	Body       ErrorResponse
}

// MapErrorToHTTP maps the domain taxonomy to a status code. Anything outside
// the taxonomy is internal and its message is not exposed.
func MapErrorToHTTP(err error) HTTPError {
	var cascadeErr *domain.CascadeError
	if errors.As(err, &cascadeErr) && len(cascadeErr.Applied) == 0 {
		err = cascadeErr.Err
	}

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return HTTPError{fiber.StatusBadRequest, ErrorResponse{Error: vErr.Error(), Code: "VALIDATION_FAILED", Field: vErr.Field}}
	case errors.Is(err, domain.ErrValidation):
		return HTTPError{fiber.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"}}
	case errors.Is(err, domain.ErrUnauthorized):
		return HTTPError{fiber.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "ROLE_NOT_PERMITTED"}}
	case errors.Is(err, domain.ErrAccessDenied):
		return HTTPError{fiber.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "ACCESS_DENIED"}}
	case errors.Is(err, domain.ErrNotFound):
		return HTTPError{fiber.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}}
	case errors.Is(err, domain.ErrConflict):
		return HTTPError{fiber.StatusConflict, ErrorResponse{Error: err.Error(), Code: "CONFLICT"}}
	default:
		return HTTPError{fiber.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}}
	}
}

// respondError writes the mapped error. Internal failures are logged with the
// original error; taxonomy errors are logged as business errors.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	httpErr := MapErrorToHTTP(err)
	if httpErr.StatusCode == fiber.StatusInternalServerError {
		log.InternalError("request failed", err, "method", c.Method(), "path", c.Path())
	} else {
		log.BusinessError("request rejected", err, "method", c.Method(), "path", c.Path(), "status", httpErr.StatusCode)
	}
	return c.Status(httpErr.StatusCode).JSON(httpErr.Body)
}

// warnings turns a partial failure of a later step into messages returned next
// to the primary result. A nil error yields nil.
func warnings(log logger.Logger, err error) []string {
	if err == nil {
		return nil
	}

	var out []string
	var cascadeErr *domain.CascadeError
	var dispatchErr *domain.DispatchError
	switch {
	case errors.As(err, &cascadeErr):
		out = append(out, "cleanup step \""+cascadeErr.Step+"\" did not complete")
	case errors.As(err, &dispatchErr):
		for _, ev := range dispatchErr.Failed {
			out = append(out, "notification to "+ev.RecipientID+" was not delivered")
		}
	default:
		out = append(out, "a follow-up step did not complete")
	}
	log.InternalError("partial failure after successful mutation", err)
	return out
}

// isPartialFailure reports whether err happened after the primary mutation applied
func isPartialFailure(err error) bool {
	var cascadeErr *domain.CascadeError
	return errors.As(err, &cascadeErr) && len(cascadeErr.Applied) > 0
}
