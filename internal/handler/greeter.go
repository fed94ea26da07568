package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Greeting is the fixed body of the root route.
const Greeting = "Hello, world!"

// Hello answers GET / with the greeting as plain text. Query parameters and
// headers are ignored.
func Hello(c echo.Context) error {
	return c.String(http.StatusOK, Greeting) // String writes text/plain
}
