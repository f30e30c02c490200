package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"saheli-store/internal/models"
	"saheli-store/internal/repository"
)

// respondError emite el envelope de error. El detalle del error subyacente
// solo se incluye fuera de producción.
func respondError(c *gin.Context, status int, message string, err error, expose bool) {
	payload := gin.H{
		"success": false,
		"message": message,
	}
	if err != nil && expose {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// respondFailure traduce la taxonomía de errores al envelope HTTP:
// validación → 400, no encontrado → 404, resto → 500 con detalle oculto
// en producción.
func respondFailure(c *gin.Context, err error, notFoundMsg, serverMsg string, expose bool) {
	switch {
	case models.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error(), nil, expose)
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundMsg, nil, expose)
	default:
		respondError(c, http.StatusInternalServerError, serverMsg, err, expose)
	}
}
