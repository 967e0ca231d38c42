package routes

import (
	domainPermission "go-mailing-api/src/domain/permission"
	"go-mailing-api/src/infrastructure/di"
	"go-mailing-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func MailingRoutes(router *gin.RouterGroup, appContext *di.ApplicationContext, authenticated []gin.HandlerFunc) {
	controller := appContext.MailingController
	m := router.Group("/mailings")
	m.Use(authenticated...)
	m.Use(middlewares.CacheResponse(appContext.ResponseCache, domainPermission.ViewMailing, appContext.Logger))
	{
		m.GET("", controller.GetAll)
		m.POST("", controller.Create)
		m.GET("/stats", controller.Stats)
		m.GET("/:id", controller.GetByID)
		m.PUT("/:id", controller.Update)
		m.DELETE("/:id", controller.Delete)
		m.POST("/:id/launch", controller.Launch)
		m.POST("/:id/stop", controller.Stop)
	}
}

func AttemptRoutes(router *gin.RouterGroup, appContext *di.ApplicationContext, authenticated []gin.HandlerFunc) {
	a := router.Group("/attempts")
	a.Use(authenticated...)
	a.Use(middlewares.CacheResponse(appContext.ResponseCache, domainPermission.ViewAttempt, appContext.Logger))
	a.GET("", appContext.AttemptController.GetAll)
}
