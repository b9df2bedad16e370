package folio

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type userResponse struct {
	Name string `json:"name"`
}

// handleUsers is a fixed placeholder endpoint; it ignores the request.
func handleUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, userResponse{Name: "John Doe"})
}
