// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/csemotors/dealership/internal/core/domain"
)

//go:embed templates
var templatesFS embed.FS

const pagesDir = "templates/pages"

// Page is the data every template receives.
type Page struct {
	Title    string
	Nav      []domain.Classification
	Identity *domain.Identity
	Notices  []string
	// Errors holds field-scoped validation messages keyed by form field.
	Errors map[string]string
	// Form carries the submitted values back into a re-rendered form.
	Form any
	Data any
}

func (p Page) LoggedIn() bool { return p.Identity != nil }

// CanManageInventory reports whether the inventory management links apply.
func (p Page) CanManageInventory() bool {
	return p.Identity != nil && p.Identity.Role.In(domain.RoleEmployee, domain.RoleAdmin, domain.RoleOwner)
}

// CanAdminister reports whether the admin panel links apply.
func (p Page) CanAdminister() bool {
	return p.Identity != nil && p.Identity.Role.In(domain.RoleAdmin, domain.RoleOwner)
}

// ClassificationSelect feeds the classification dropdown.
type ClassificationSelect struct {
	Options  []domain.Classification
	Selected int64
}

// VehicleForm feeds the add and edit vehicle pages.
type VehicleForm struct {
	Select ClassificationSelect
	Form   any
}

// VehicleDetail feeds the vehicle detail page.
type VehicleDetail struct {
	Vehicle  *domain.Vehicle
	Comments []domain.Comment
}

// Renderer implements echo.Renderer over the embedded templates. Each page is
// parsed together with the layout and partials into its own template set.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	printer := message.NewPrinter(language.AmericanEnglish)
	funcs := template.FuncMap{
		"price": func(v float64) string { return printer.Sprintf("$%.0f", v) },
		"miles": func(v int64) string { return printer.Sprintf("%d", v) },
		"roles": func() []domain.Role { return domain.Roles },
		"date":  func(t time.Time) string { return t.Format("Jan 2, 2006 3:04 PM") },
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err := fs.WalkDir(templatesFS, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		t, err := template.New(path.Base(p)).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html", "templates/partials/*.html", p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page is registered.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
