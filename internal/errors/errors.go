package errors

import (
	"errors"
	"net/http"
	"strings"

	"codeberg.org/aiam/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.BadRequest(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use errors.RespondGeneration() for anything returned by the orchestrator
//     or a provider client
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For detached background tasks:
//   - Return the error; the background runner logs it with the task name
//
// For services/repositories/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Return *GenerationError when the failure has a pipeline meaning
//   - Do not log errors in non-handler code (avoid double logging)

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeForbidden,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, err error) {
	message := "validation failed"
	details := ""

	if err != nil {
		details = sanitizeError(err)
		if strings.Contains(err.Error(), "binding") || strings.Contains(err.Error(), "validation") {
			message = "request validation failed"
		}
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Details: details,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 409 conflict error
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}

	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   CodeConflict,
		Message: message,
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 400 bad request error for invalid operations
func InvalidOperation(c *gin.Context, message string) {
	if message == "" {
		message = "invalid operation"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeInvalidOperation,
		Message: message,
	})
}

// writes the response for an error coming out of the generation pipeline.
// errors without a pipeline kind fall back to InternalError.
func RespondGeneration(c *gin.Context, err error) {
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		InternalError(c, "request failed", err)
		return
	}

	logArgs := []any{
		"path", c.Request.URL.Path,
		"user_id", c.GetString("user_id"),
		"kind", string(genErr.Kind),
		"op", genErr.Op,
	}

	switch genErr.Kind {
	case KindInsufficientCredits:
		// expected business condition, not logged as an error
		c.JSON(http.StatusPaymentRequired, ErrorResponse{
			Error:   CodeInsufficientCredits,
			Message: genErr.Message,
			Details: genErr.Detail,
		})

	case KindInvalid:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   CodeValidationError,
			Message: genErr.Message,
		})

	case KindConfiguration:
		logger.ErrorErr(err, "provider configuration error", logArgs...)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   CodeServerError,
			Message: "this feature is temporarily unavailable",
			Details: genErr.Op,
		})

	case KindProviderRejected:
		logger.WarnErr(err, "provider rejected request", logArgs...)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   CodeProviderRejected,
			Message: genErr.Message,
			Details: sanitizeDetail(genErr),
		})

	case KindProviderTransient:
		logger.WarnErr(err, "provider unavailable", logArgs...)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   CodeProviderUnavailable,
			Message: genErr.Message,
			Details: sanitizeDetail(genErr),
		})

	case KindProviderTimeout:
		logger.WarnErr(err, "provider timed out", logArgs...)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:   CodeProviderTimeout,
			Message: genErr.Message,
			Details: genErr.Op,
		})

	case KindProviderRateLimited:
		logger.WarnErr(err, "provider rate limited", logArgs...)
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error:   CodeProviderRateLimited,
			Message: genErr.Message,
			Details: genErr.Detail,
		})

	case KindPersistenceFailure:
		logger.ErrorErr(err, "generated artifact not saved", logArgs...)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:    CodePersistenceFailure,
			Message:  genErr.Message,
			Details:  sanitizeError(genErr.Err),
			Artifact: genErr.Artifact,
		})

	case KindSuperseded:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   CodeSuperseded,
			Message: genErr.Message,
		})

	case KindNotFound:
		NotFound(c, genErr.Message)

	case KindConflict:
		Conflict(c, genErr.Message)

	default:
		InternalError(c, "request failed", err)
	}
}

// provider response bodies can be long, keep support details short
func sanitizeDetail(e *GenerationError) string {
	const maxDetail = 300

	detail := e.Detail
	if detail == "" && e.Err != nil {
		detail = sanitizeError(e.Err)
	}

	if len(detail) > maxDetail {
		detail = detail[:maxDetail]
	}

	return detail
}
