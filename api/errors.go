package api

import (
	"errors"
	"net/http"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps the domain failure taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateApproval), errors.Is(err, domain.ErrAlreadyPaid):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrMissingAssignment),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidPassengerCount),
		errors.Is(err, domain.ErrUnresolvableLocation):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
