package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HomeHandler struct {
	*Pages
}

func NewHomeHandler(pages *Pages) *HomeHandler {
	return &HomeHandler{Pages: pages}
}

func (h *HomeHandler) Home(c echo.Context) error {
	return h.Render(c, http.StatusOK, "index", h.Page(c, "Home"))
}
