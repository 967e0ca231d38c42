package routes

import (
	domainPermission "go-mailing-api/src/domain/permission"
	"go-mailing-api/src/infrastructure/di"
	"go-mailing-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func UserRoutes(router *gin.RouterGroup, appContext *di.ApplicationContext, authenticated []gin.HandlerFunc) {
	controller := appContext.UserController
	u := router.Group("/users")

	// Anonymous account flows
	u.POST("/register", controller.Register)
	u.GET("/verify/:token", controller.Verify)
	u.POST("/password-reset", controller.RequestPasswordReset)
	u.POST("/password-reset/:token", controller.ResetPassword)
	u.POST("/reset/:token", controller.ResetPassword)

	private := u.Group("")
	private.Use(authenticated...)
	{
		listCheck := middlewares.RequiresPermissionMiddleware(domainPermission.ViewUserList, appContext.Logger)
		blockCheck := middlewares.RequiresPermissionMiddleware(domainPermission.BlockUser, appContext.Logger)
		cached := middlewares.CacheResponse(appContext.ResponseCache, domainPermission.ViewUserList, appContext.Logger)

		private.GET("", listCheck, cached, controller.ListCustomers)
		private.GET("/:id", controller.GetByID)
		private.PUT("/:id", controller.UpdateProfile)
		private.POST("/:id/avatar", controller.UploadAvatar)
		private.PATCH("/:id/active", blockCheck, controller.SetActive)
	}
}
