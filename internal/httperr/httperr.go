package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
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

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// WriteError maps an operation error onto the HTTP surface. Every
// appointment handler funnels failures through here so the taxonomy
// stays consistent.
func WriteError(c *gin.Context, err error) {
	if ve, ok := AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_failed",
			Message: "Datos inválidos.",
			Fields:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		NotFound(c, "not_found", "Recurso no encontrado.")
	case errors.Is(err, ErrForbidden):
		Forbidden(c, "forbidden", "No tiene permiso para esta operación.")
	case errors.Is(err, ErrConcurrency):
		Conflict(c, "concurrent_modification", "El registro fue modificado por otra persona. Recargue e intente de nuevo.")
	case errors.Is(err, ErrDependency):
		Conflict(c, "has_dependent_records", "No se puede eliminar: existen registros dependientes.")
	default:
		var be BusinessError
		if errors.As(err, &be) {
			BadRequest(c, be.Code, "Operación rechazada.")
			return
		}
		Internal(c, "internal_error", "Error inesperado. Intente de nuevo.")
	}
}
