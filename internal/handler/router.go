package handler

import (
	"pollos-admin/internal/middleware"
	"pollos-admin/internal/model"
	"pollos-admin/internal/service"
	"pollos-admin/internal/views"
	"pollos-admin/pkg/database"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the admin surface needs.
type Deps struct {
	Auth    service.AuthService
	Catalog service.CatalogService
	Pricing service.PricingService
	Cookies middleware.SessionCookies
	DB      database.Pinger
	Log     *logger.Logger
	Metrics *metrics.Recorder
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer  prometheus.Gatherer
	AccessLog bool
}

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(d Deps) *fiber.App {
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Pollos Admin",
		Views:        views.New(),
		ViewsLayout:  views.Layout,
		ErrorHandler: ErrorHandler(d.Log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if d.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(middleware.RequestContext(d.Log))
	app.Use(middleware.Metrics(d.Metrics))

	Register(app, d)
	return app
}

// Register wires the routes onto app.
func Register(app *fiber.App, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Cookies)
	catalogHandler := NewCatalogHandler(d.Catalog)
	modHandler := NewModificationHandler(d.Catalog)
	priceHandler := NewPriceHandler(d.Catalog, d.Pricing)

	// ============ PUBLIC ROUTES ============
	if d.DB != nil {
		app.Get("/healthz", NewHealthHandler(d.DB).Check)
	}
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := app.Group("/auth")
	auth.Get("/login", authHandler.LoginForm)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// ============ PROTECTED ROUTES ============
	// Every catalog page requires a session and the administrator role.
	admin := app.Group("",
		middleware.RequireAuth(d.Auth, d.Cookies, d.Log),
		middleware.RequireRole(model.RoleAdministrator),
	)

	admin.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(homePath, fiber.StatusSeeOther)
	})

	// Products
	admin.Get("/productos", catalogHandler.ListProducts)
	admin.Get("/productos/crear", catalogHandler.NewProduct)
	admin.Post("/productos/crear", catalogHandler.CreateProduct)
	admin.Get("/productos/editar/:id", catalogHandler.EditProduct)
	admin.Post("/productos/editar/:id", catalogHandler.UpdateProduct)
	admin.Get("/productos/ver/:id", catalogHandler.ShowProduct)
	admin.Post("/productos/:id/modificaciones", catalogHandler.AddProductModification)
	admin.Post("/productos/:id/modificaciones/:mid/quitar", catalogHandler.RemoveProductModification)

	// Subproducts
	admin.Get("/productos/:id/subproductos/crear", catalogHandler.NewSubproduct)
	admin.Post("/productos/:id/subproductos/crear", catalogHandler.CreateSubproduct)
	admin.Get("/subproductos/editar/:sid", catalogHandler.EditSubproduct)
	admin.Post("/subproductos/editar/:sid", catalogHandler.UpdateSubproduct)
	admin.Post("/subproductos/:sid/modificaciones", catalogHandler.AddSubproductModification)
	admin.Post("/subproductos/:sid/modificaciones/:mid/quitar", catalogHandler.RemoveSubproductModification)

	// Modifications
	admin.Get("/modificaciones", modHandler.List)
	admin.Get("/modificaciones/crear", modHandler.New)
	admin.Post("/modificaciones/crear", modHandler.Create)
	admin.Get("/modificaciones/editar/:mid", modHandler.Edit)
	admin.Post("/modificaciones/editar/:mid", modHandler.Update)

	// Prices
	admin.Get("/productos/:id/precios/crear", priceHandler.NewProductPrice)
	admin.Post("/productos/:id/precios/crear", priceHandler.CreateProductPrice)
	admin.Get("/subproductos/:sid/precios/crear", priceHandler.NewSubproductPrice)
	admin.Post("/subproductos/:sid/precios/crear", priceHandler.CreateSubproductPrice)
	admin.Get("/precios/editar/:pid", priceHandler.Edit)
	admin.Post("/precios/editar/:pid", priceHandler.Update)
	admin.Get("/precios/cotizar", priceHandler.Quote)
}
