package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

// Logging 日志中间件
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("request_id", GetRequestID(c)),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		// 根据状态码决定日志级别
		switch {
		case status >= 500:
			log.WithFields(fields...).Error("HTTP request error")
		case status >= 400:
			log.WithFields(fields...).Warn("HTTP request warning")
		default:
			log.WithFields(fields...).Info("HTTP request")
		}
	}
}
