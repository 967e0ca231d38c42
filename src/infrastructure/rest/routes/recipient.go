package routes

import (
	domainPermission "go-mailing-api/src/domain/permission"
	"go-mailing-api/src/infrastructure/di"
	"go-mailing-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func RecipientRoutes(router *gin.RouterGroup, appContext *di.ApplicationContext, authenticated []gin.HandlerFunc) {
	controller := appContext.RecipientController
	r := router.Group("/recipients")
	r.Use(authenticated...)
	r.Use(middlewares.CacheResponse(appContext.ResponseCache, domainPermission.ViewRecipient, appContext.Logger))
	{
		r.GET("", controller.GetAll)
		r.POST("", controller.Create)
		r.GET("/:id", controller.GetByID)
		r.PUT("/:id", controller.Update)
		r.DELETE("/:id", controller.Delete)
	}
}

func MessageRoutes(router *gin.RouterGroup, appContext *di.ApplicationContext, authenticated []gin.HandlerFunc) {
	controller := appContext.MessageController
	m := router.Group("/messages")
	m.Use(authenticated...)
	m.Use(middlewares.CacheResponse(appContext.ResponseCache, domainPermission.ViewMessage, appContext.Logger))
	{
		m.GET("", controller.GetAll)
		m.POST("", controller.Create)
		m.GET("/:id", controller.GetByID)
		m.PUT("/:id", controller.Update)
		m.DELETE("/:id", controller.Delete)
	}
}
