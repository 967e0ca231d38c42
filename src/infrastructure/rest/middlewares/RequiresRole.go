package middlewares

import (
	"net/http"
	"strings"

	useCasePermission "go-mailing-api/src/application/usecases/permission"
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"
	"go-mailing-api/src/infrastructure/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

// AuthJWTMiddleware rejects requests without a valid access token and stores the
// token's user id and role in the context
func AuthJWTMiddleware(jwtService security.IJWTService, loggerInstance *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token not provided"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := jwtService.GetClaimsAndVerifyToken(tokenString, security.Access)
		if err != nil {
			loggerInstance.Debug("Rejected access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		userID, ok := claims["id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid user ID in token"})
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok || !domainPermission.ValidRole(userRole) {
			loggerInstance.Error("Role claim missing from token", zap.Float64("userID", userID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token: missing role claim"})
			return
		}

		c.Set(UserIDKey, int(userID))
		c.Set(UserRoleKey, userRole)
		c.Next()
	}
}

// IdentityMiddleware loads the authenticated account and resolves the permissions of
// its current role. Blocked or deleted accounts are rejected even with a valid token.
// It must run after AuthJWTMiddleware.
func IdentityMiddleware(permissionUseCase useCasePermission.IPermissionUseCase, loggerInstance *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt(UserIDKey)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		identity, err := permissionUseCase.Resolve(userID)
		if err != nil {
			if domainErrors.IsType(err, domainErrors.NotAuthenticated) {
				loggerInstance.Info("Rejected token of inactive account", zap.Int("userID", userID))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
				return
			}
			loggerInstance.Error("Error resolving permissions", zap.Error(err), zap.Int("userID", userID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not resolve permissions"})
			return
		}
		if tokenRole := c.GetString(UserRoleKey); tokenRole != identity.Role {
			loggerInstance.Debug("Token role differs from stored role", zap.Int("userID", userID),
				zap.String("tokenRole", tokenRole), zap.String("role", identity.Role))
		}
		c.Set(controllers.IdentityKey, identity)
		c.Next()
	}
}

// RequiresPermissionMiddleware lets the request through only when the identity holds perm
func RequiresPermissionMiddleware(perm domainPermission.Permission, loggerInstance *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := controllers.Identity(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		if !identity.Can(perm) {
			loggerInstance.Warn("User does not have required permission",
				zap.String("permission", string(perm)),
				zap.String("userRole", identity.Role),
				zap.Int("userID", identity.UserID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
