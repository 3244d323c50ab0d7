package http

import (
	"log/slog"
	"net/http"

	"dispatch/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// RouterConfig carries what NewRouter needs besides the server itself.
type RouterConfig struct {
	// Doc is the parsed OpenAPI document; requests are validated against it.
	Doc       *openapi3.T
	JWTSecret []byte
	Logger    *slog.Logger
}

// NewRouter builds the echo instance: health probe, Swagger UI, request validation,
// operator authentication and the generated API routes.
func NewRouter(server *Server, cfg RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)
	e.HTTPErrorHandler = errorHandler

	validator, err := RequestValidator(cfg.Doc)
	if err != nil {
		return nil, err
	}
	if err = registerAPIDoc(cfg.Doc); err != nil {
		return nil, err
	}

	e.Use(middleware.Recover())
	e.Use(requestLogger(cfg.Logger))
	e.Use(OperatorAuth(cfg.JWTSecret, cfg.Logger))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", swaggerHandler)

	servers.RegisterHandlers(e, server)
	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelDebug
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.Log(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
