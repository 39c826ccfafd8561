// Package webserver hosts the echo engine: middleware, serialization,
// validation and route registration. Handlers reach the application context
// through the request context injected here.
package webserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/app"
)

// contextAppKey is the echo context key carrying the application context.
const contextAppKey = "toughstore_app"

type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
	config *config.AppConfig
}

var server *WebServer

// Init builds the global web server instance.
func Init(appCtx app.AppContext, cfg *config.AppConfig) {
	server = NewWebServer(appCtx, cfg)
}

func NewWebServer(appCtx app.AppContext, cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Web.Debug
	e.JSONSerializer = &JsoniterSerializer{}
	e.Validator = NewPayloadValidator()

	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(contextAppKey, appCtx)
			return next(c)
		}
	})
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zap.L().Warn("request", fields...)
			} else {
				zap.L().Info("request", fields...)
			}
			return nil
		},
	}))

	e.GET("/health", healthHandler)

	return &WebServer{root: e, appCtx: appCtx, config: cfg}
}

// Listen starts the HTTP server on the configured address.
func Listen() error {
	addr := fmt.Sprintf("%s:%d", server.config.Web.Host, server.config.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Engine exposes the echo instance, mainly for tests.
func Engine() *echo.Echo {
	return server.root
}

// Close stops the HTTP server.
func Close() error {
	return server.root.Close()
}

// GetAppContext returns the application context bound to the request.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(contextAppKey).(app.AppContext)
}

// GetDB returns the database handle bound to the request.
func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

func healthHandler(c echo.Context) error {
	status := map[string]string{"status": "ok", "database": "up"}
	sqlDB, err := GetDB(c).DB()
	if err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "down"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}

// ApiGET registers a GET route
func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

// ApiPOST registers a POST route
func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

// ApiPUT registers a PUT route
func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT(path, h)
}

// ApiPATCH registers a PATCH route
func ApiPATCH(path string, h echo.HandlerFunc) {
	server.root.PATCH(path, h)
}

// ApiDELETE registers a DELETE route
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE(path, h)
}
