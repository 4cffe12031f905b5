package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
)

// NavSource lists the classifications shown in the site navigation.
type NavSource interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
}

// Pages builds the data every rendered page shares: navigation, the caller's
// identity and pending notices.
type Pages struct {
	nav NavSource
	jar *web.Jar
	log zerolog.Logger
}

func NewPages(nav NavSource, jar *web.Jar, log zerolog.Logger) *Pages {
	return &Pages{nav: nav, jar: jar, log: log}
}

// Page returns a page with the shared fields filled. A navigation failure is
// logged and the page renders without it.
func (p *Pages) Page(c echo.Context, title string) view.Page {
	page := view.Page{Title: title}

	nav, err := p.nav.Classifications(c.Request().Context())
	if err != nil {
		p.log.Error().Err(err).Msg("load navigation")
	}
	page.Nav = nav

	if id, ok := middleware.Identity(c); ok {
		page.Identity = &id
	}
	return page
}

// Render drains the flash notices into page and renders it.
func (p *Pages) Render(c echo.Context, code int, name string, page view.Page) error {
	page.Notices = append(page.Notices, p.jar.Notices(c)...)
	return c.Render(code, name, page)
}

// Flash queues a notice for the next rendered page.
func (p *Pages) Flash(c echo.Context, msg string) {
	p.jar.Flash(c, msg)
}

// formErrors extracts field messages from a Validate error. ok is false for
// any other kind of error.
func formErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
