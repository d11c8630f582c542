package controllers

import (
	"net/http"

	"github.com/vivmuk/caloriecounter/services"

	"github.com/gin-gonic/gin"
)

type CompareController struct {
	Analysis *services.AnalysisService
	Compare  *services.CompareService
}

func NewCompareController(analysis *services.AnalysisService, compare *services.CompareService) *CompareController {
	return &CompareController{Analysis: analysis, Compare: compare}
}

type CompareInput struct {
	ImageBase64 string   `json:"image_base64" binding:"required"`
	Models      []string `json:"models,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// POST /api/v1/compare  { "image_base64": "data:...", "models": ["venice","gemini"] }
//
// Always returns 200 with one slot per requested model; individual failures
// live inside their slot.
func (cc *CompareController) CompareModels(c *gin.Context) {
	var input CompareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	in, err := cc.Analysis.DecodeImage(services.AnalyzeRequest{
		ImageBase64: input.ImageBase64,
		Notes:       input.Notes,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := cc.Compare.Compare(c.Request.Context(), c.GetUint("userID"), in, input.Models)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
