package middleware

import (
	"github.com/2ta/recall/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig 注入应用元信息（支持依赖注入）
func AppInfoWithConfig(name string, version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
