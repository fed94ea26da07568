package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// HealthResponse is the body of the liveness probe.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health is the liveness/readiness endpoint probed by load balancers and
// orchestrators. It always answers 200 {"status":"ok"} and checks no
// dependencies, so a slow database never takes the process out of rotation.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"}) // JSON sets application/json
}
