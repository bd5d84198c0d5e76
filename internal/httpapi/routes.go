package httpapi

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) registerRoutes(staticDir string) {
	s.echo.Use(s.requestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(errorMiddleware(s.logger))

	s.echo.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := s.echo.Group("/api")
	api.GET("/apps", s.handleListApps)
	api.POST("/apps", s.handleCreateApp)
	api.PUT("/apps/:id", s.handleUpdateApp)
	api.DELETE("/apps/:id", s.handleDeleteApp)
	api.POST("/apps/:id/launch", s.handleLaunchApp)

	if staticDir != "" {
		if dirExists(staticDir) {
			s.echo.Static("/", staticDir)
		} else {
			s.logger.Warn("static directory not found, UI disabled", "dir", staticDir)
		}
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			s.logger.Info("Request", attrs...)
			return nil
		},
	})
}
