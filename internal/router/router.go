package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"userhub/internal/handler"
	"userhub/internal/middleware"
)

// LivenessBody 存活探测响应体
const LivenessBody = "Hey this is my API running 🥳"

// SetupRouter 设置路由
func SetupRouter(userHandler *handler.UserHandler) *gin.Engine {
	// 创建 Gin Engine（不使用默认中间件）
	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())                // Panic 恢复
	r.Use(cors.Default())                // CORS（允许所有来源）
	r.Use(middleware.LoggerMiddleware()) // 访问日志

	// 存活探测
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, LivenessBody)
	})

	// 用户路由组
	users := r.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.PUT("/:id", userHandler.UpdateProfile)
		users.PATCH("/:id", userHandler.LikeUser)
		users.POST("/image-upload", userHandler.UploadImage)
		users.DELETE("/image/:imageId", userHandler.RemoveImage)
	}

	return r
}
