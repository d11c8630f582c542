package controllers

import (
	"errors"
	"net/http"

	"github.com/vivmuk/caloriecounter/services"
	"github.com/vivmuk/caloriecounter/utils"

	"github.com/gin-gonic/gin"
)

type AnalyzeController struct {
	Analysis *services.AnalysisService
}

func NewAnalyzeController(analysis *services.AnalysisService) *AnalyzeController {
	return &AnalyzeController{Analysis: analysis}
}

// POST /api/v1/analyze  { "image_base64": "data:image/jpeg;base64,...", "model": "venice", "notes": "..." }
func (ac *AnalyzeController) Analyze(c *gin.Context) {
	var req services.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	resp, err := ac.Analysis.Analyze(c.Request.Context(), c.GetUint("userID"), req)
	if err != nil {
		status, msg := analyzeErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func analyzeErrorStatus(err error) (int, string) {
	var badJSON *utils.MalformedJSONError
	switch {
	case errors.Is(err, services.ErrInvalidImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNoFoodDetected):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrProviderNotConfigured):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &badJSON), errors.Is(err, utils.ErrNoJSON):
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusBadGateway, err.Error()
}
