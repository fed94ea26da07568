package router // package router defines how HTTP routes are registered for each service

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/learn-cloud/cloudkit/internal/handler"
)

// RegisterRoutes registers the greeter's two routes. Anything else falls
// through to echo's default 404.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Hello)
	// Probed by load balancers and orchestrators; see handler.Health.
	e.GET("/healthz", handler.Health)
}

// RegisterDemo registers the demo API. mw is applied to every route and is
// where the optional rate limiter goes.
func RegisterDemo(e *echo.Echo, d *handler.DemoHandler, mw ...echo.MiddlewareFunc) {
	e.HTTPErrorHandler = handler.DemoErrorHandler

	e.GET("/", d.Index, mw...)
	e.GET("/health", d.Health, mw...)
	e.GET("/time", d.Time, mw...)
	e.GET("/random", d.Random, mw...)
	e.GET("/quote", d.Quote, mw...)
	e.GET("/weather/:city", d.Weather, mw...)
	e.GET("/cities", d.Cities, mw...)
	e.GET("/math/:op/:a/:b", d.Math, mw...)
	e.GET("/stats", d.Stats, mw...)
}

// RegisterTextFunction registers the text processing function. Every
// response carries the CORS headers, whether or not the request sent an
// Origin; echo's CORS middleware still answers real preflights.
func RegisterTextFunction(e *echo.Echo) {
	e.Use(corsHeaders)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: textMethods,
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Match(textMethods, "/", handler.ProcessText)
	e.GET("/health", handler.TextHealth)
}

var textMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

func corsHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowMethods, strings.Join(textMethods, ", "))
		h.Set(echo.HeaderAccessControlAllowHeaders, echo.HeaderContentType)
		return next(c)
	}
}
