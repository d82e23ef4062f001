package inkwell

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// HeaderAPIKey is the alternative to a Bearer token.
const HeaderAPIKey = "X-API-Key"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("ip", v.RemoteIP),
			}
			if v.Error != nil {
				a.Logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			a.Logger.Info("request", fields...)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit("1M"))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(apiCORSMiddleware)
	e.Use(cacheControlMiddleware)
}

// apiCORSMiddleware answers preflight requests under /api/ with fixed
// permissive headers and marks every API response readable cross-origin.
func apiCORSMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
			return next(c)
		}
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		if c.Request().Method != http.MethodOptions {
			return next(c)
		}
		h.Set(echo.HeaderAccessControlAllowMethods, "GET, OPTIONS")
		h.Set(echo.HeaderAccessControlAllowHeaders, "Authorization, Content-Type, "+HeaderAPIKey)
		h.Set(echo.HeaderAccessControlMaxAge, "86400")
		return c.NoContent(http.StatusNoContent)
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/api/"):
			c.Response().Header().Set("Cache-Control", "no-store")
		case path == "/sitemap.xml" || path == "/rss.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}

// apiKeyAuth accepts "Authorization: Bearer <key>" or "X-API-Key: <key>".
// Clients that keep failing are refused with 429 until their failures age
// out of the limiter window. A valid key clears the client's failures.
func (a *App) apiKeyAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if !a.authLimiter.Check(ip) {
			c.Response().Header().Set(echo.HeaderRetryAfter, "60")
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many failed authentication attempts",
				Code:  CodeRateLimited,
			})
		}
		if !a.validKey(requestKey(c.Request())) {
			a.authLimiter.Record(ip)
			a.Logger.Warn("api auth failed", zap.String("ip", ip), zap.String("uri", c.Request().RequestURI))
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="inkwell"`)
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: CodeUnauthorized})
		}
		a.authLimiter.Reset(ip)
		return next(c)
	}
}

func (a *App) validKey(key string) bool {
	if key == "" || a.Config.API.Key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(a.Config.API.Key)) == 1
}

func requestKey(r *http.Request) string {
	if auth := r.Header.Get(echo.HeaderAuthorization); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderAPIKey))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
	}

	if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.String(code, http.StatusText(code))
		return
	}
	resp := ErrorResponse{Error: http.StatusText(code)}
	switch code {
	case http.StatusNotFound:
		resp.Code = CodeNotFound
	case http.StatusMethodNotAllowed:
		resp.Code = CodeMethodNotAllowed
	case http.StatusInternalServerError:
		resp.Error = "Internal server error"
		resp.Details = err.Error()
	}
	_ = c.JSON(code, resp)
}
