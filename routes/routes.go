package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/seekernothing/next-homes/handlers"
	"github.com/seekernothing/next-homes/middleware"
)

func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handlers.HealthCheck)

	userController := handlers.NewUserController()
	propertyController := handlers.NewPropertyController()
	favouriteController := handlers.NewFavouriteController()
	imageController := handlers.NewImageController()

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", userController.Register)
	api.POST("/auth/login", userController.Login)
	api.GET("/properties", propertyController.SearchProperties)
	api.GET("/properties/:id", propertyController.GetProperty)
	api.GET("/images/*", imageController.GetImage)

	// Authenticated routes
	auth := api.Group("", middleware.JWTMiddleware())
	auth.GET("/account", userController.GetProfile)
	auth.PUT("/account/password", userController.UpdatePassword)
	auth.DELETE("/account", userController.DeleteAccount)
	auth.POST("/favourites/:propertyId", favouriteController.AddFavourite)
	auth.DELETE("/favourites/:propertyId", favouriteController.RemoveFavourite)
	auth.GET("/favourites", favouriteController.GetFavourites)
	auth.GET("/favourites/properties", favouriteController.GetFavouriteProperties)

	// Admin routes
	admin := auth.Group("", middleware.AdminOnly())
	admin.POST("/properties", propertyController.CreateProperty)
	admin.PUT("/properties/:id", propertyController.UpdateProperty)
	admin.DELETE("/properties/:id", propertyController.DeleteProperty)
	admin.POST("/properties/:id/images", propertyController.UploadImages)
}
