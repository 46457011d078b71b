package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/payments"
)

// respondError maps the service error taxonomy onto HTTP statuses. Business
// conflicts are client errors, never 5xx.
func respondError(c *gin.Context, err error) {
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Fields})
		return
	}

	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusBadRequest, gin.H{"error": conflict.Error()})
		return
	}

	var unauthorized *apperrors.UnauthorizedError
	if errors.As(err, &unauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauthorized.Error()})
		return
	}

	if errors.Is(err, payments.ErrCardDeclined) ||
		errors.Is(err, payments.ErrAuthenticationRequired) ||
		errors.Is(err, payments.ErrSetupIncomplete) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
