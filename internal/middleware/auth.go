package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"testseries_backend/internal/config"
	"testseries_backend/internal/model"
	"testseries_backend/internal/util"
)

const blacklistPrefix = "auth:blacklist:"

// AuthMiddleware 校验Bearer令牌并拒绝已登出的令牌
func AuthMiddleware(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		// 已登出的令牌命中黑名单
		if rdb != nil && claims.ID != "" {
			if n, err := rdb.Exists(c.Request.Context(), blacklistPrefix+claims.ID).Result(); err == nil && n > 0 {
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Set("user", claims)
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			// 管理员直接放行
			if user.Role == model.Admin || user.Role == role {
				hasRole = true
				break
			}
		}
		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
