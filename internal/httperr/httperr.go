package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code      string `json:"error_code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// WriteBusiness mapeia o Kind do erro para o status HTTP.
func WriteBusiness(c *gin.Context, err error, message string) {
	var be BusinessError
	status := http.StatusUnprocessableEntity

	if b, ok := err.(BusinessError); ok {
		be = b
	} else {
		be = BusinessError{Kind: KindBusiness, Code: "business_error"}
	}

	switch be.Kind {
	case KindValidation:
		status = http.StatusBadRequest
	case KindConflict:
		status = http.StatusConflict
	case KindSaturation:
		status = http.StatusUnprocessableEntity
	case KindStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HTTPError{
		Code:      be.Code,
		Message:   message,
		Retryable: be.Retryable,
	})
}
