package handlers

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the people API on router
func SetupRoutes(router *gin.Engine, personHandler *PersonHandler, healthHandler *HealthHandler) {
	people := router.Group("/people")
	{
		people.GET("", personHandler.ListPeople)
		people.POST("", personHandler.UpsertPerson)
		people.GET("/export", personHandler.ExportPeople)
		people.POST("/import", personHandler.ImportPeople)
		people.GET("/:email", personHandler.GetPerson)
		people.PUT("/:email", personHandler.UpdatePerson)
		people.DELETE("/:email", personHandler.DeletePerson)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	router.NoRoute(NewNotFoundHandler().NotFound)
}
