package routes

import (
	"net/http"

	"go-mailing-api/src/infrastructure/di"
	"go-mailing-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is running",
	})
}

func ApplicationRouter(router *gin.Engine, appContext *di.ApplicationContext) {
	router.GET("/health", health)
	if appContext.MediaRoot != "" {
		router.Static("/media", appContext.MediaRoot)
	}

	v1 := router.Group("/v1")
	v1.GET("/health", health)

	authenticated := []gin.HandlerFunc{
		middlewares.AuthJWTMiddleware(appContext.JWTService, appContext.Logger),
		middlewares.IdentityMiddleware(appContext.PermissionUseCase, appContext.Logger),
	}

	AuthRoutes(v1, appContext.AuthController)
	UserRoutes(v1, appContext, authenticated)
	RecipientRoutes(v1, appContext, authenticated)
	MessageRoutes(v1, appContext, authenticated)
	MailingRoutes(v1, appContext, authenticated)
	AttemptRoutes(v1, appContext, authenticated)
}
