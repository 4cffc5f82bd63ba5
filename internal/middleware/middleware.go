// Package middleware provides HTTP middleware for the application
package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/i18n"
	"settings-ui/internal/response"
	"settings-ui/internal/types"
	"settings-ui/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// AuthCookie is the cookie the HTML settings page keeps the admin key in.
const AuthCookie = "auth_key"

// RequestID assigns each request an ID, reusing a client supplied one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger creates a high-performance logging middleware
func Logger(config types.LogConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		// 静态资源不记录
		if strings.HasPrefix(path, "/static/") && c.Writer.Status() < 400 {
			return
		}

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + redactQuery(raw)
		}

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString("request_id"),
		}
		entry := logrus.WithFields(fields)

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("HTTP request failed")
		case status >= 400:
			entry.Warn("HTTP request rejected")
		case path == "/health":
			entry.Debug("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}

func redactQuery(raw string) string {
	parts := strings.Split(raw, "&")
	for i, part := range parts {
		if strings.HasPrefix(part, AuthCookie+"=") {
			parts[i] = AuthCookie + "=***"
		}
	}
	return strings.Join(parts, "&")
}

// Recovery creates a recovery middleware with custom error handling
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"panic":      fmt.Sprint(recovered),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).Error("Panic recovered")

		response.Error(c, app_errors.ErrInternalServer)
		c.Abort()
	})
}

// ErrorHandler turns errors attached with c.Error into the standard error response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if apiErr, ok := err.(*app_errors.APIError); ok {
			response.Error(c, apiErr)
			return
		}
		logrus.WithError(err).Error("Unhandled request error")
		response.Error(c, app_errors.ErrInternalServer)
	}
}

// Auth requires the admin key as a Bearer token. HTML pages also accept it as
// the auth_key query parameter or cookie.
func Auth(authConfig types.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authConfig.Key == "" {
			c.Next()
			return
		}

		key := extractAuthKey(c)
		if key == "" {
			abortUnauthorized(c, i18n.Message(c, "error.unauthorized"))
			return
		}
		if !CheckAuthKey(key, authConfig.Key) {
			abortUnauthorized(c, i18n.Message(c, "error.invalid_auth"))
			return
		}

		// 页面通过查询参数登录后写入 cookie
		if c.Query(AuthCookie) != "" {
			c.SetCookie(AuthCookie, key, 86400, "/", "", false, true)
		}
		c.Next()
	}
}

// CheckAuthKey verifies a presented key against the configured key, which may be a bcrypt hash.
func CheckAuthKey(presented, configured string) bool {
	if utils.IsBcryptHash(configured) {
		return utils.CheckPasswordHash(presented, configured)
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

func extractAuthKey(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(header[len(prefix):])
		}
	}
	if key := c.Query(AuthCookie); key != "" {
		return key
	}
	if key, err := c.Cookie(AuthCookie); err == nil {
		return key
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, app_errors.NewAPIError(app_errors.ErrUnauthorized, message))
	c.Abort()
}
