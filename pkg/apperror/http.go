package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message. Unclassified errors and
// server-side kinds never leak their cause.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	return appErr.Message
}

// Respond writes {"error": msg} with the mapped status. 5xx causes are logged.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request_failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": PublicMessage(err)})
}

// FromBinding turns a gin binding failure into a Validation error, naming the
// offending fields when the validator reports them.
func FromBinding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s: failed on '%s'", toSnake(fe.Field()), fe.Tag()))
		}
		return &Error{Kind: KindValidation, Message: strings.Join(parts, "; "), Err: err}
	}
	return &Error{Kind: KindValidation, Message: "invalid request body", Err: err}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
