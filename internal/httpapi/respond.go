// Package httpapi maps usecase results onto the JSON surface: success
// bodies pass through, taxonomy errors become {"ok":false,...} envelopes
// with a status derived from the error kind.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsdash/inventory-service/internal/apperr"
)

type ErrorBody struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Projected *int64 `json:"projectedPhysicalStock,omitempty"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidAdjustment:
		return http.StatusUnprocessableEntity
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Error(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.JSON(statusFor(e.Kind), ErrorBody{
			ErrorKind: string(e.Kind),
			Message:   e.Msg,
			Field:     e.Field,
			Projected: e.Projected,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{
		ErrorKind: string(apperr.KindInternal),
		Message:   "internal error",
	})
}

// BindError wraps a gin binding failure into the validation envelope.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		ErrorKind: string(apperr.KindValidation),
		Message:   err.Error(),
	})
}
