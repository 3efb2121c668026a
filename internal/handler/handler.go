package handler

import (
	"errors"
	"net/http"

	"inventory-service/internal/engine"
	"inventory-service/pkg/config"

	"github.com/labstack/echo/v4"
)

// Handler exposes the inventory engine over HTTP.
type Handler struct {
	engine *engine.Service
	cfg    *config.Config
}

func New(eng *engine.Service, cfg *config.Config) *Handler {
	return &Handler{engine: eng, cfg: cfg}
}

// errorStatus maps engine error kinds to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateSKU), errors.Is(err, engine.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), echo.Map{"error": err.Error()})
}
