package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vivmuk/caloriecounter/services"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/analyses?page=1&page_size=20
func ListAnalyses(c *gin.Context) {
	userID := c.GetUint("userID")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	analyses, total, err := services.ListAnalyses(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": analyses,
		"total":    total,
		"page":     page,
	})
}

// GET /api/v1/analyses/:id
func GetAnalysis(c *gin.Context) {
	userID := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	analysis, err := services.GetAnalysis(userID, uint(id))
	if errors.Is(err, services.ErrAnalysisNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// DELETE /api/v1/analyses/:id
func DeleteAnalysis(c *gin.Context) {
	userID := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := services.DeleteAnalysis(userID, uint(id)); err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}
