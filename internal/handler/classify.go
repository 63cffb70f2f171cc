package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callintake/internal/model"
	"callintake/internal/service"
)

// ClassifyHandler serves the stateless pipeline
type ClassifyHandler struct {
	intakeService *service.IntakeService
}

// NewClassifyHandler creates a new classify handler
func NewClassifyHandler(intakeService *service.IntakeService) *ClassifyHandler {
	return &ClassifyHandler{intakeService: intakeService}
}

// Classify handles POST /api/v1/classify
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req model.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.intakeService.Classify(c.Request.Context(), req))
}
