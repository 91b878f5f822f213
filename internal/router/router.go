package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
)

// Setup configures the application routes.
func Setup(
	logger *zap.Logger,
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	catalogHandler *api.CatalogHandler,
) *gin.Engine {
	api.RegisterValidators()

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	root := router.Group("/api")
	authHandler.RegisterRoutes(root)
	userHandler.RegisterRoutes(root)
	recipeHandler.RegisterRoutes(root)
	catalogHandler.RegisterRoutes(root)

	return router
}
