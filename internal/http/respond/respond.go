// Package respond writes the JSON error envelope shared by every endpoint:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
//
// details is only populated in development mode.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"todo_api/internal/logger"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	CodeMissingToken       = "MISSING_TOKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeEmailRegistered    = "EMAIL_ALREADY_REGISTERED"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Envelope struct {
	Error ErrorBody `json:"error"`
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code, message string, details map[string]any, dev bool) {
	body := ErrorBody{Code: code, Message: message}
	if dev {
		if details == nil {
			details = map[string]any{}
		}
		details["status_code"] = status
		details["path"] = c.Request.URL.Path
		body.Details = details
	}
	c.AbortWithStatusJSON(status, Envelope{Error: body})
}

// Error maps a service error onto the envelope. Unknown errors become a
// generic 500 and are logged with full detail.
func Error(c *gin.Context, err error, dev bool) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrMissingToken):
		Abort(c, http.StatusUnauthorized, CodeMissingToken, "Missing authentication token", reason(err), dev)
	case errors.Is(err, service.ErrUnauthorized):
		Abort(c, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized access", reason(err), dev)
	case errors.Is(err, service.ErrEmailTaken):
		Abort(c, http.StatusBadRequest, CodeEmailRegistered, "Email already registered", nil, dev)
	case errors.Is(err, service.ErrWeakPassword):
		Abort(c, http.StatusBadRequest, CodeWeakPassword, "Password must be at least 8 characters", nil, dev)
	case errors.Is(err, service.ErrInvalidCredentials):
		Abort(c, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password", nil, dev)
	case errors.As(err, &verr):
		Abort(c, http.StatusUnprocessableEntity, CodeValidation, "Invalid request data", map[string]any{"errors": verr.Fields}, dev)
	case errors.Is(err, service.ErrNotFound):
		Abort(c, http.StatusNotFound, CodeNotFound, "Task not found", nil, dev)
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", "error", err)
		Abort(c, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", map[string]any{
			"exception": err.Error(),
			"type":      fmt.Sprintf("%T", err),
		}, dev)
	}
}

// Binding turns a gin binding failure into a ValidationError naming the
// offending fields.
func Binding(err error) *service.ValidationError {
	verr := &service.ValidationError{}

	var fieldErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, service.FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: bindingMessage(fe),
			})
		}
	case errors.As(err, &typeErr):
		verr.Fields = append(verr.Fields, service.FieldError{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		})
	case errors.As(err, &syntaxErr):
		verr.Fields = append(verr.Fields, service.FieldError{Field: "body", Message: "malformed JSON"})
	default:
		verr.Fields = append(verr.Fields, service.FieldError{Field: "body", Message: err.Error()})
	}
	return verr
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func reason(err error) map[string]any {
	return map[string]any{"reason": err.Error()}
}
