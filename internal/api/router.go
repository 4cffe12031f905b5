package api

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/csemotors/dealership/docs"
	"github.com/csemotors/dealership/internal/api/handler"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/api/web"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	Auth      ports.AuthService
	Accounts  ports.AccountService
	Inventory ports.InventoryService
	Comments  ports.CommentService
	Jar       *web.Jar
	StaticDir string

	// DB and Redis back the readiness check. Redis is nil when sessions live in Postgres.
	DB    *sql.DB
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()

	pages := handler.NewPages(d.Inventory, d.Jar, d.Log)
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, pages)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("dealership"))
	e.Use(middleware.CheckToken(d.Auth, d.Jar))

	// --- Static assets ---
	for _, dir := range []string{"css", "js", "images"} {
		e.Static("/"+dir, filepath.Join(d.StaticDir, dir))
	}

	// --- Handlers ---
	home := handler.NewHomeHandler(pages)
	accounts := handler.NewAccountHandler(pages, d.Auth, d.Accounts, d.Comments, d.Inventory, d.Jar, d.Log)
	inventory := handler.NewInventoryHandler(pages, d.Inventory, d.Comments, d.Log)

	requireLogin := middleware.RequireLogin(d.Jar)
	staff := middleware.RequireRole(d.Jar, domain.RoleEmployee, domain.RoleAdmin, domain.RoleOwner)
	admins := middleware.RequireRole(d.Jar, domain.RoleAdmin, domain.RoleOwner)

	e.GET("/", home.Home)

	// --- Account routes ---
	acc := e.Group("/account")
	acc.GET("/login", accounts.LoginPage)
	acc.POST("/login", accounts.Login)
	acc.GET("/logout", accounts.Logout)
	acc.GET("/register", accounts.RegisterPage)
	acc.POST("/register", accounts.Register)
	acc.GET("/", accounts.Management, requireLogin)
	acc.GET("/edit/:id", accounts.EditPage, requireLogin)
	acc.POST("/update", accounts.Update, requireLogin)
	acc.POST("/update/password", accounts.UpdatePassword, requireLogin)
	acc.POST("/comments", accounts.AddComment, requireLogin)
	acc.GET("/admin", accounts.AdminPage, requireLogin, admins)
	acc.POST("/admin", accounts.AdminUpdate, requireLogin, admins)

	// --- Inventory routes ---
	inv := e.Group("/inv")
	inv.GET("/type/:classificationId", inventory.ByClassification)
	inv.GET("/detail/:invId", inventory.Detail)
	inv.GET("/getInventory/:classificationId", inventory.InventoryJSON)
	inv.GET("/", inventory.Management, requireLogin, staff)
	inv.GET("/add-classification", inventory.AddClassificationPage, requireLogin, staff)
	inv.POST("/add-classification", inventory.AddClassification, requireLogin, staff)
	inv.GET("/add-inventory", inventory.AddVehiclePage, requireLogin, staff)
	inv.POST("/add-inventory", inventory.AddVehicle, requireLogin, staff)
	inv.GET("/edit/:invId", inventory.EditPage, requireLogin, staff)
	inv.POST("/update", inventory.Update, requireLogin, staff)
	inv.GET("/delete/:invId", inventory.DeletePage, requireLogin, staff)
	inv.POST("/delete", inventory.Delete, requireLogin, staff)

	// --- Health checks, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
