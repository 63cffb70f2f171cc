package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"callintake/internal/model"
)

// respondError maps workflow errors to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrChipNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrChipFinalized), errors.Is(err, model.ErrSessionClosed):
		status = http.StatusConflict
	case errors.Is(err, model.ErrUnknownKind):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
