package controllers

import (
	"net/http"

	"github.com/vivmuk/caloriecounter/services"

	"github.com/gin-gonic/gin"
)

type ModelController struct {
	Registry *services.Registry
}

func NewModelController(registry *services.Registry) *ModelController {
	return &ModelController{Registry: registry}
}

// GET /api/v1/models
func (mc *ModelController) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": mc.Registry.Names(),
		"models":    mc.Registry.AllModels(),
	})
}
