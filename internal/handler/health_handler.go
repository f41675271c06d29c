package handler

import "github.com/gin-gonic/gin"

// Readiness 健康检查
func Readiness(c *gin.Context) {
	Success(c, "Server is ready", nil)
}
