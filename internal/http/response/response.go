package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/urbanpros/booking-backend/internal/domain/identity"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondEngineError maps engine error codes onto HTTP statuses so handlers
// never branch on codes themselves.
func RespondEngineError(c *gin.Context, err error) {
	code := identitydomain.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case identitydomain.CodeNotResolvable, identitydomain.CodeValidation:
		status = http.StatusBadRequest
	case identitydomain.CodeNotFound:
		status = http.StatusNotFound
	case identitydomain.CodeDenied:
		status = http.StatusForbidden
	case identitydomain.CodeThrottled:
		status = http.StatusTooManyRequests
	case identitydomain.CodeDuplicatePhone:
		status = http.StatusConflict
	case identitydomain.CodeTimeout:
		status = http.StatusGatewayTimeout
	case identitydomain.CodeRaceUnresolved, identitydomain.CodeRepointPartial:
		status = http.StatusServiceUnavailable
	case "":
		code = identitydomain.CodeInternal
	}
	RespondError(c, status, string(code), err)
}
